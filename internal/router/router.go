package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"biblio/internal/auth"
	"biblio/internal/errors"
	"biblio/internal/handler"
	"biblio/internal/model"
)

// Register wires routes and middleware. The route table mirrors the
// original library app: public register/login, a session-gated group
// for browsing and circulation, and an admin-gated group.
func Register(
	e *echo.Echo,
	jwtService *auth.JWTService,
	sessionStore auth.SessionStoreInterface,
	authHandler *handler.AuthHandler,
	catalogHandler *handler.CatalogHandler,
	circulationHandler *handler.CirculationHandler,
	dashboardHandler *handler.DashboardHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Landing page
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"service": "library",
			"message": "welcome to the library",
		})
	})

	// Public routes
	e.POST("/register", authHandler.Register)
	e.POST("/login", authHandler.Login)

	// Session-gated routes
	secured := e.Group("", SessionAuth(jwtService, sessionStore))
	secured.GET("/logout", authHandler.Logout)
	secured.GET("/dashboard", dashboardHandler.Dashboard)
	secured.GET("/user", dashboardHandler.UserDashboard)
	secured.GET("/browse", catalogHandler.Browse)
	secured.GET("/borrow/:bookID", circulationHandler.ShowBorrow)
	secured.POST("/borrow/:bookID", circulationHandler.Borrow)
	secured.GET("/return/:borrowID", circulationHandler.ShowReturn)
	secured.POST("/return/:borrowID", circulationHandler.Return)

	// Admin-gated routes
	admin := secured.Group("", RequireRole(model.RoleAdmin))
	admin.GET("/admin", dashboardHandler.AdminDashboard)
	admin.POST("/admin/add_book", catalogHandler.AddBook)
}

// SessionAuth authenticates a request: the bearer token must carry a
// valid signature AND its session id must still be bound in the store.
// A logged-out token fails here even before its expiry.
func SessionAuth(jwtService *auth.JWTService, sessions auth.SessionStoreInterface) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ParseTokenFunc: func(c echo.Context, tokenString string) (interface{}, error) {
			claims, err := jwtService.ValidateToken(tokenString)
			if err != nil {
				return nil, err
			}
			if !claims.Role.Valid() {
				return nil, errors.ErrInvalidSession
			}
			if _, _, _, err := sessions.GetSession(c.Request().Context(), claims.ID); err != nil {
				return nil, errors.ErrInvalidSession
			}
			c.Set(auth.ContextIdentityKey, auth.IdentityFromClaims(claims))
			return claims, nil
		},
	})
}

// RequireRole gates a route on an exact role match.
func RequireRole(role model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ident, ok := c.Get(auth.ContextIdentityKey).(auth.Identity)
			if !ok || !auth.Authorize(ident, role) {
				httpErr := errors.MapErrorToHTTP(errors.ErrAccessDenied)
				return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
			}
			return next(c)
		}
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
