// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"usermap/internal/delivery/http/middleware"
	"usermap/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// RouterParams holds the handlers and middleware injected by Fx.
type RouterParams struct {
	fx.In

	AuthHandler    *handler.AuthHandler
	ProfileHandler *handler.ProfileHandler
	MapHandler     *handler.MapHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler    *handler.AuthHandler
	profileHandler *handler.ProfileHandler
	mapHandler     *handler.MapHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:    params.AuthHandler,
		profileHandler: params.ProfileHandler,
		mapHandler:     params.MapHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Public routes: account creation, login, and the profile JSON API
	e.POST("/signup", r.authHandler.Signup)
	e.GET("/login", r.authHandler.LoginForm)
	e.POST("/login", r.authHandler.Login)
	e.GET("/user/:id/json", r.profileHandler.PublicProfile)

	// Everything else requires a live session
	gated := e.Group("")
	gated.Use(r.authMiddleware.Authenticate)
	{
		gated.GET("/", r.mapHandler.UserMap)
		gated.GET("/map/geojson", r.mapHandler.UserGeoJSON)
		gated.GET("/logout", r.authHandler.Logout)
		gated.GET("/profile/:id", r.profileHandler.GetProfile)
		gated.GET("/profile/:id/edit", r.profileHandler.EditProfileForm)
		gated.POST("/profile/:id/edit", r.profileHandler.UpdateProfile)
		gated.GET("/profile/:id/qrcode", r.profileHandler.ProfileQRCode)
	}
}
