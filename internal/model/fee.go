package model

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Fee is a fixed-point money amount with two fraction digits, stored as
// hundredths. It marshals as a decimal string ("1.50") and maps onto
// numeric(5,2) columns.
type Fee int64

func FeeFromString(s string) (Fee, error) {
	s = strings.TrimSpace(s)
	neg := strings.HasPrefix(s, "-")
	whole, frac, _ := strings.Cut(strings.TrimPrefix(s, "-"), ".")
	if whole == "" {
		whole = "0"
	}
	switch len(frac) {
	case 0:
		frac = "00"
	case 1:
		frac += "0"
	case 2:
	default:
		return 0, errors.Errorf("fee %q: more than two fraction digits", s)
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "fee %q", s)
	}
	cents, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "fee %q", s)
	}
	v := units*100 + cents
	if neg {
		v = -v
	}
	return Fee(v), nil
}

func (f Fee) String() string {
	v := int64(f)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

func (f Fee) MarshalJSON() ([]byte, error) {
	return []byte(`"` + f.String() + `"`), nil
}

func (f *Fee) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := FeeFromString(s)
	if err != nil {
		return err
	}
	*f = v
	return nil
}

func (f Fee) Value() (driver.Value, error) {
	return f.String(), nil
}

func (f *Fee) Scan(src any) error {
	switch v := src.(type) {
	case string:
		fee, err := FeeFromString(v)
		if err != nil {
			return err
		}
		*f = fee
		return nil
	case []byte:
		return f.Scan(string(v))
	case int64:
		*f = Fee(v * 100)
		return nil
	case float64:
		*f = Fee(v*100 + 0.5)
		return nil
	case nil:
		*f = 0
		return nil
	default:
		return errors.Errorf("cannot scan %T into Fee", src)
	}
}
