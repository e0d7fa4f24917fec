// Package router wires HTTP routes to their handlers.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/mahirathood/movie-ticket-booking/internal/handler"
	"github.com/mahirathood/movie-ticket-booking/internal/middleware"
)

// RegisterRoutes registers routes that need no authentication or
// handler state. Currently only the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints. Signup, login,
// refresh and logout live under /v1/auth and need no session; /v1/me
// requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/signup", a.Signup)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterCatalog registers the public browse endpoints. They take no
// JWT; extra middleware (typically the response cache) applies to the
// whole group.
func RegisterCatalog(e *echo.Echo, h *handler.CatalogHandler, b *handler.BookingHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/v1", mw...)
	g.GET("/movies", h.ListMovies)
	g.GET("/movies/:id/shows", h.ListShows)
	g.GET("/shows/:id", h.GetShow)
	g.GET("/shows/:id/seats", b.ShowSeats)
}

// RegisterBookings registers the booking endpoints. All of them
// require a valid access token.
func RegisterBookings(e *echo.Echo, b *handler.BookingHandler, jwtSecret string) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	g.POST("/shows/:id/book", b.BookSeat)
	g.POST("/bookings/:id/cancel", b.CancelBooking)
	g.GET("/my-bookings", b.ListMyBookings)
}
