package httptransport

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	sloggin "github.com/samber/slog-gin"
	"github.com/weathertrack/weathertrack/internal/transport/http/handler"
	"github.com/weathertrack/weathertrack/internal/transport/http/middleware"
)

func NewRouter(logger *slog.Logger, authHandler *handler.AuthHandler, cityHandler *handler.CityHandler, jwtKey []byte) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	auth := r.Group("/api/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/signin", authHandler.Signin)

	// Protected city routes. The static "suggest" segment takes priority over
	// the :city parameter.
	cities := r.Group("/api/weather/cities", middleware.Auth(jwtKey))
	cities.GET("", cityHandler.List)
	cities.POST("", cityHandler.Add)
	cities.DELETE("/:id", cityHandler.Remove)
	cities.GET("/suggest", cityHandler.Suggest)
	cities.GET("/:city", cityHandler.Weather)

	return r
}
