package api

import (
	"net/http"
	"path/filepath"
	"time"

	"github.com/Domenick1991/trainbooking/config"
	"github.com/Domenick1991/trainbooking/internal/service/tickets"
	"github.com/Domenick1991/trainbooking/internal/service/trains"
	"github.com/Domenick1991/trainbooking/internal/service/users"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
)

const openAPIPath = "/docs/openapi.json"

// NewRouter mounts the REST API under /api/v1.
func NewRouter(cfg config.HTTPConfig, userSvc users.UserUseCase, trainSvc trains.TrainUseCase, ticketSvc tickets.TicketUseCase) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	if len(cfg.AllowedOrigins) > 0 {
		cc := cors.DefaultConfig()
		cc.AllowOrigins = cfg.AllowedOrigins
		cc.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}
		cc.MaxAge = 12 * time.Hour
		router.Use(cors.New(cc))
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	NewUserHandler(userSvc).Register(v1.Group("/users"))
	NewTrainHandler(trainSvc).Register(v1.Group("/trains"))
	ticketHandler := NewTicketHandler(ticketSvc)
	ticketHandler.Register(v1.Group("/tickets"))
	ticketHandler.RegisterFare(v1.Group("/fare"))

	if cfg.SwaggerDir != "" {
		router.StaticFile(openAPIPath, filepath.Join(cfg.SwaggerDir, "openapi.json"))
		router.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL(openAPIPath))))
	}

	return router
}
