package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/natalie-goriela/Library-API/internal/errs"
	"github.com/natalie-goriela/Library-API/pkg/auth"
	md "github.com/natalie-goriela/Library-API/pkg/middleware"
	"github.com/natalie-goriela/Library-API/pkg/validate"
)

type Handler struct {
	bookSvc      BookService
	borrowingSvc BorrowingService
	authSvc      AuthService
	jwtKey       []byte
	log          *zap.Logger
}

func New(bookSvc BookService, borrowingSvc BorrowingService, authSvc AuthService, jwtKey []byte, log *zap.Logger) *Handler {
	return &Handler{
		bookSvc:      bookSvc,
		borrowingSvc: borrowingSvc,
		authSvc:      authSvc,
		jwtKey:       jwtKey,
		log:          log,
	}
}

type capability int

const (
	capPublic capability = iota
	capAuthenticated
	capStaff
)

// routePolicy is the per-operation authorization table, consulted by the
// policy middleware before any handler runs. Ownership checks beyond the
// capability (owner-or-staff on borrowings) live in the service layer.
var routePolicy = map[string]capability{
	"GET /api/v1/books":        capPublic,
	"GET /api/v1/books/:id":    capPublic,
	"POST /api/v1/books":       capStaff,
	"PUT /api/v1/books/:id":    capStaff,
	"PATCH /api/v1/books/:id":  capStaff,
	"DELETE /api/v1/books/:id": capStaff,

	"GET /api/v1/borrowings":            capAuthenticated,
	"GET /api/v1/borrowings/:id":        capAuthenticated,
	"POST /api/v1/borrowings":           capAuthenticated,
	"PUT /api/v1/borrowings/:id":        capStaff,
	"PUT /api/v1/borrowings/:id/return": capAuthenticated,

	"POST /api/v1/register": capPublic,
	"POST /api/v1/login":    capPublic,
	"GET /api/v1/me":        capAuthenticated,
}

func (h *Handler) policyMiddleware() echo.MiddlewareFunc {
	jwtMW := md.JwtAuthentication(h.jwtKey)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			required, ok := routePolicy[c.Request().Method+" "+c.Path()]
			if !ok || required == capPublic {
				return next(c)
			}
			guarded := next
			if required == capStaff {
				guarded = func(c echo.Context) error {
					profile, err := auth.FromContext(c.Request().Context())
					if err != nil {
						return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
					}
					if !profile.Staff() {
						return echo.NewHTTPError(http.StatusForbidden, "staff permission required")
					}
					return next(c)
				}
			}
			return jwtMW(guarded)(c)
		}
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig()),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
		h.policyMiddleware(),
	)

	api.GET("/books", h.GetBooks)
	api.GET("/books/:id", h.GetBook)
	api.POST("/books", h.CreateBook)
	api.PUT("/books/:id", h.UpdateBook)
	api.PATCH("/books/:id", h.PatchBook)
	api.DELETE("/books/:id", h.DeleteBook)

	api.GET("/borrowings", h.GetBorrowings)
	api.GET("/borrowings/:id", h.GetBorrowing)
	api.POST("/borrowings", h.CreateBorrowing)
	api.PUT("/borrowings/:id", h.UpdateBorrowing)
	api.PUT("/borrowings/:id/return", h.ReturnBorrowing)

	api.POST("/register", h.Register)
	api.POST("/login", h.Authorize)
	api.GET("/me", h.Me)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// httpError maps domain errors onto transport codes. Validation failures
// keep their field map so clients can render inline messages.
func httpError(err error) error {
	var ve *errs.ValidationError
	switch {
	case errors.As(err, &ve):
		return echo.NewHTTPError(http.StatusBadRequest, echo.Map{
			"message": ve.Error(),
			"errors":  ve.Fields,
		})
	case errors.Is(err, errs.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, errs.ErrBadCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, errs.ErrOutOfStock),
		errors.Is(err, errs.ErrAlreadyReturned),
		errors.Is(err, errs.ErrEmailTaken):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func currentProfile(c echo.Context) (auth.Profile, error) {
	profile, err := auth.FromContext(c.Request().Context())
	if err != nil {
		return auth.Profile{}, echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	return profile, nil
}
