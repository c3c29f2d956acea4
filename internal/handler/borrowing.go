package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/natalie-goriela/Library-API/internal/model"
)

func (h *Handler) GetBorrowings(c echo.Context) error {
	profile, err := currentProfile(c)
	if err != nil {
		return err
	}
	params, err := pageParams(c)
	if err != nil {
		return err
	}
	filter := model.BorrowingFilter{PageParams: params}

	if isActiveParam := c.QueryParam("is_active"); isActiveParam != "" {
		isActive, err := strconv.ParseBool(isActiveParam)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.New("is_active is invalid"))
		}
		filter.IsActive = &isActive
	}
	if userParam := c.QueryParam("user"); userParam != "" {
		userID, err := strconv.ParseInt(userParam, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.New("user is invalid"))
		}
		// The service pins the filter to the caller for non-staff.
		filter.UserID = &userID
	}

	borrowings, err := h.borrowingSvc.ListBorrowings(c.Request().Context(), filter, profile)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, borrowings)
}

func (h *Handler) GetBorrowing(c echo.Context) error {
	profile, err := currentProfile(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	borrowing, err := h.borrowingSvc.GetBorrowing(c.Request().Context(), id, profile)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, borrowing)
}

func (h *Handler) CreateBorrowing(c echo.Context) error {
	profile, err := currentProfile(c)
	if err != nil {
		return err
	}
	var req model.CreateBorrowingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	borrowing, err := h.borrowingSvc.CreateBorrowing(c.Request().Context(), req, profile)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, borrowing)
}

// UpdateBorrowing is the update-style return entry point: staff supply the
// actual return date in the body.
func (h *Handler) UpdateBorrowing(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req model.ReturnBorrowingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	borrowing, err := h.borrowingSvc.UpdateBorrowing(c.Request().Context(), id, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, borrowing)
}

// ReturnBorrowing is the explicit return action: no body, the return date
// is today.
func (h *Handler) ReturnBorrowing(c echo.Context) error {
	profile, err := currentProfile(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if _, err := h.borrowingSvc.ReturnBorrowing(c.Request().Context(), id, profile); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, model.ReturnBorrowingResponse{Status: "Returned"})
}
