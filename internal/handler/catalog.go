package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mahirathood/movie-ticket-booking/internal/model"
	"github.com/mahirathood/movie-ticket-booking/internal/repository"
)

// MovieStore is the catalog access the browse endpoints need.
type MovieStore interface {
	List(ctx context.Context) ([]model.Movie, error)
	GetByID(ctx context.Context, id uint64) (*model.Movie, error)
}

// ShowCatalog serves show listings and details.
type ShowCatalog interface {
	ListByMovie(ctx context.Context, movieID uint64) ([]repository.ShowDetail, error)
	GetDetail(ctx context.Context, id uint64) (*repository.ShowDetail, error)
}

// CatalogHandler serves the public browse endpoints.
type CatalogHandler struct {
	Movies MovieStore
	Shows  ShowCatalog
}

func NewCatalogHandler(movies MovieStore, shows ShowCatalog) *CatalogHandler {
	return &CatalogHandler{Movies: movies, Shows: shows}
}

// ListMovies returns every movie in the catalog.
func (h *CatalogHandler) ListMovies(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	movies, err := h.Movies.List(ctx)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "internal", "list movies failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"movies": movies})
}

// ListShows returns the shows of one movie, soonest first.
func (h *CatalogHandler) ListShows(c echo.Context) error {
	movieID, ok := pathID(c, "id")
	if !ok {
		return jsonError(c, http.StatusNotFound, "movie_not_found", "movie not found")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Movies.GetByID(ctx, movieID); err != nil {
		return reservationError(c, err)
	}
	shows, err := h.Shows.ListByMovie(ctx, movieID)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "internal", "list shows failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"shows": shows})
}

// GetShow returns one show with its movie embedded.
func (h *CatalogHandler) GetShow(c echo.Context) error {
	showID, ok := pathID(c, "id")
	if !ok {
		return jsonError(c, http.StatusNotFound, "show_not_found", "show not found")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	detail, err := h.Shows.GetDetail(ctx, showID)
	if err != nil {
		return reservationError(c, err)
	}
	return c.JSON(http.StatusOK, detail)
}
