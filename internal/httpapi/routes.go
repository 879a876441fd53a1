package httpapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

func (a *API) registerRoutes(e *echo.Echo) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"ok":        true,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})
	if a.metrics != nil {
		e.GET("/metrics", echo.WrapHandler(a.metrics.Handler()))
	}

	v1 := e.Group("/api/v1")
	a.registerAuthV1Routes(v1)
	a.registerAdminV1Routes(v1)
}

func (a *API) registerAuthV1Routes(v1 *echo.Group) {
	g := v1.Group("/auth")
	g.POST("/login", a.handler.Login)
	g.POST("/refresh", a.handler.Refresh)
	g.POST("/logout", a.handler.Logout)
	g.POST("/revoke", a.handler.Revoke)
	g.POST("/introspect", a.handler.Introspect)
	g.GET("/userinfo", a.handler.UserInfo)
	g.POST("/mfa/challenge", a.handler.MfaChallenge)
	g.POST("/mfa/verify", a.handler.MfaVerify)
}

func (a *API) registerAdminV1Routes(v1 *echo.Group) {
	admin := v1.Group("/admin")
	admin.Use(a.auth.Middleware)

	admin.POST("/users", a.handler.CreateUser)
	admin.PATCH("/users/:id", a.handler.UpdateUser)
	admin.DELETE("/users/:id", a.handler.DeleteUser)
	admin.PUT("/users/:id/password", a.handler.ChangePassword)
	admin.POST("/users/:id/password/reset", a.handler.ResetPassword)

	admin.GET("/users/:id/roles", a.handler.GetRoles)
	admin.POST("/users/:id/roles", a.handler.AssignRoles)
	admin.DELETE("/users/:id/roles", a.handler.RemoveRoles)
	admin.POST("/roles", a.handler.CreateRoles)
	admin.POST("/scopes", a.handler.CreateScope)

	admin.GET("/users/:id/sessions", a.handler.ListSessions)
	admin.DELETE("/users/:id/sessions/:sid", a.handler.RevokeSession)
}
