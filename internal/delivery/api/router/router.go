// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"library/config"
	"library/internal/delivery/api/middleware"
	"library/internal/delivery/api/router/handler"
	"library/internal/infra/metrics"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	CatalogHandler    *handler.CatalogHandler
	OrderHandler      *handler.OrderHandler
	ReviewHandler     *handler.ReviewHandler
	AuthHandler       *handler.AuthHandler
	AdminHandler      *handler.AdminHandler
	HealthHandler     *handler.HealthHandler
	SessionMiddleware *middleware.SessionMiddleware
	Metrics           *metrics.Metrics
	Config            *config.Config
}

// router holds all the handlers that need to be registered.
type router struct {
	catalogHandler    *handler.CatalogHandler
	orderHandler      *handler.OrderHandler
	reviewHandler     *handler.ReviewHandler
	authHandler       *handler.AuthHandler
	adminHandler      *handler.AdminHandler
	healthHandler     *handler.HealthHandler
	sessionMiddleware *middleware.SessionMiddleware
	metrics           *metrics.Metrics
	config            *config.Config
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		catalogHandler:    params.CatalogHandler,
		orderHandler:      params.OrderHandler,
		reviewHandler:     params.ReviewHandler,
		authHandler:       params.AuthHandler,
		adminHandler:      params.AdminHandler,
		healthHandler:     params.HealthHandler,
		sessionMiddleware: params.SessionMiddleware,
		metrics:           params.Metrics,
		config:            params.Config,
	}
}

// RegisterRoutes sets up all the routes of the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", r.healthHandler.HealthCheck)

	requireLogin := r.sessionMiddleware.RequireLogin

	// Public catalog
	e.GET("/", r.catalogHandler.Index)
	e.GET("/:id/", r.catalogHandler.Detail)
	e.GET("/findbooks/", r.catalogHandler.SearchForm)
	e.POST("/findbooks/", r.catalogHandler.Search)

	// Account routes
	e.GET("/login/", r.authHandler.LoginPage)
	e.POST("/login/", r.authHandler.Login)
	e.GET("/logout/", r.authHandler.Logout, requireLogin)
	e.GET("/register/", r.authHandler.RegisterForm)
	e.POST("/register/", r.authHandler.Register)

	// Member routes that require a session
	e.GET("/place_order/", r.orderHandler.OrderForm, requireLogin)
	e.POST("/place_order/", r.orderHandler.PlaceOrder, requireLogin)
	e.GET("/orders/", r.orderHandler.MyOrders, requireLogin)
	e.GET("/review/", r.reviewHandler.ReviewForm, requireLogin)
	e.POST("/review/", r.reviewHandler.SubmitReview, requireLogin)
	e.GET("/check/:id/", r.catalogHandler.CheckReviews, requireLogin)

	// Back office, staff only
	adminGroup := e.Group("/admin")
	adminGroup.Use(requireLogin)                     // First, check if logged in
	adminGroup.Use(r.sessionMiddleware.RequireStaff) // Then, check for staff
	{
		adminGroup.GET("/publishers/", r.adminHandler.ListPublishers)
		adminGroup.POST("/publishers/", r.adminHandler.CreatePublisher)
		adminGroup.GET("/books/", r.adminHandler.ListBooks)
		adminGroup.POST("/books/", r.adminHandler.CreateBook)
		adminGroup.PUT("/books/:id/", r.adminHandler.UpdateBook)
		adminGroup.POST("/books/increase-price/", r.adminHandler.IncreasePrices)
		adminGroup.GET("/members/", r.adminHandler.ListMembers)
		adminGroup.GET("/orders/", r.adminHandler.ListOrders)
		adminGroup.GET("/reviews/", r.adminHandler.ListReviews)
	}
}

// RegisterMetricsRoute exposes the prometheus registry when enabled.
func (r *router) RegisterMetricsRoute(e *echo.Echo) {
	if r.config.Metrics != nil && r.config.Metrics.Enabled {
		e.GET(r.config.Metrics.Path, echo.WrapHandler(r.metrics.Handler()))
	}
}
