package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/weathertrack/weathertrack/internal/domain"
)

type cityUsecaser interface {
	List(ctx context.Context) ([]*domain.City, error)
	Add(ctx context.Context, name string) (*domain.City, error)
	Remove(ctx context.Context, id string) error
	Weather(ctx context.Context, name string) (*domain.Snapshot, error)
}

type suggestUsecaser interface {
	Suggest(ctx context.Context, query string) ([]domain.Suggestion, error)
}

type CityHandler struct {
	cityUsecase    cityUsecaser
	suggestUsecase suggestUsecaser
	logger         *slog.Logger
}

func NewCityHandler(cityUsecase cityUsecaser, suggestUsecase suggestUsecaser, logger *slog.Logger) *CityHandler {
	return &CityHandler{
		cityUsecase:    cityUsecase,
		suggestUsecase: suggestUsecase,
		logger:         logger.With("component", "city_handler"),
	}
}

type addCityRequest struct {
	Name string `json:"name" binding:"required,max=256"`
}

// cityResponse keeps the field names the SPA already consumes.
type cityResponse struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Country     string    `json:"country"`
	Temperature float64   `json:"temperature"`
	Condition   string    `json:"condition"`
	Humidity    int       `json:"humidity"`
	WindSpeed   float64   `json:"windSpeed"`
	Sunrise     int64     `json:"sunrise"`
	Sunset      int64     `json:"sunset"`
	LastUpdated time.Time `json:"lastUpdated"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toCityResponse(c *domain.City) cityResponse {
	return cityResponse{
		ID:          c.ID,
		Name:        c.Name,
		Country:     c.Country,
		Temperature: c.Temperature,
		Condition:   c.Condition,
		Humidity:    c.Humidity,
		WindSpeed:   c.WindSpeed,
		Sunrise:     c.Sunrise,
		Sunset:      c.Sunset,
		LastUpdated: c.LastUpdated,
		CreatedAt:   c.CreatedAt,
	}
}

type snapshotResponse struct {
	Name        string  `json:"name"`
	Country     string  `json:"country"`
	Temperature float64 `json:"temperature"`
	Condition   string  `json:"condition"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"windSpeed"`
	Sunrise     int64   `json:"sunrise"`
	Sunset      int64   `json:"sunset"`
}

type suggestionResponse struct {
	Name        string   `json:"name"`
	Country     string   `json:"country,omitempty"`
	Temperature *float64 `json:"temperature"`
	Condition   string   `json:"condition"`
	Source      string   `json:"source"`
}

// GET /api/weather/cities
func (h *CityHandler) List(c *gin.Context) {
	cities, err := h.cityUsecase.List(c.Request.Context())
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "list cities", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": errInternalServer})
		return
	}

	items := make([]cityResponse, len(cities))
	for i, city := range cities {
		items[i] = toCityResponse(city)
	}
	c.JSON(http.StatusOK, items)
}

// POST /api/weather/cities
func (h *CityHandler) Add(c *gin.Context) {
	var req addCityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	city, err := h.cityUsecase.Add(c.Request.Context(), req.Name)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCityAlreadyTracked):
			c.JSON(http.StatusBadRequest, gin.H{"message": errCityAlreadyTracked})
		case errors.Is(err, domain.ErrCityUnresolved):
			c.JSON(http.StatusNotFound, gin.H{"message": errCityNotFound})
		default:
			h.logger.ErrorContext(c.Request.Context(), "add city", "name", req.Name, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": errInternalServer})
		}
		return
	}

	c.JSON(http.StatusCreated, toCityResponse(city))
}

// DELETE /api/weather/cities/:id
func (h *CityHandler) Remove(c *gin.Context) {
	id := c.Param("id")

	if err := h.cityUsecase.Remove(c.Request.Context(), id); err != nil {
		h.logger.ErrorContext(c.Request.Context(), "remove city", "city_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "City removed"})
}

// GET /api/weather/cities/:city — live snapshot, tracked or not.
func (h *CityHandler) Weather(c *gin.Context) {
	name := c.Param("city")

	snap, err := h.cityUsecase.Weather(c.Request.Context(), name)
	if err != nil {
		if errors.Is(err, domain.ErrCityUnresolved) {
			c.JSON(http.StatusNotFound, gin.H{"message": errCityNotFound})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "get weather", "city", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, snapshotResponse{
		Name:        snap.Name,
		Country:     snap.Country,
		Temperature: snap.Temperature,
		Condition:   snap.Condition,
		Humidity:    snap.Humidity,
		WindSpeed:   snap.WindSpeed,
		Sunrise:     snap.Sunrise,
		Sunset:      snap.Sunset,
	})
}

// GET /api/weather/cities/suggest?s=<query>
func (h *CityHandler) Suggest(c *gin.Context) {
	suggestions, err := h.suggestUsecase.Suggest(c.Request.Context(), c.Query("s"))
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "suggest cities", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": errInternalServer})
		return
	}

	items := make([]suggestionResponse, len(suggestions))
	for i, s := range suggestions {
		items[i] = suggestionResponse{
			Name:        s.Name,
			Country:     s.Country,
			Temperature: s.Temperature,
			Condition:   s.Condition,
			Source:      s.Source,
		}
	}
	c.JSON(http.StatusOK, items)
}
