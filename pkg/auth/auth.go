package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"
)

// Claims is the token payload issued on login and checked on every
// authenticated request.
type Claims struct {
	Profile Profile `json:"profile"`
	jwt.RegisteredClaims
}

type Profile struct {
	UserID  int64  `json:"user_id"`
	Email   string `json:"email"`
	IsStaff bool   `json:"is_staff"`
}

// Staff reports whether the identity may perform staff-only operations.
func (p Profile) Staff() bool {
	return p.IsStaff
}

type contextKey int

const profileKey contextKey = iota + 1

var ErrNoIdentity = errors.New("no authenticated identity in context")

func SetAuthContext(ctx context.Context, profile Profile) context.Context {
	return context.WithValue(ctx, profileKey, profile)
}

func FromContext(ctx context.Context) (Profile, error) {
	profile, ok := ctx.Value(profileKey).(Profile)
	if !ok {
		return Profile{}, ErrNoIdentity
	}
	return profile, nil
}
