package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"roomly/internal/infra/config"
	"roomly/internal/infra/obs"
)

type Handlers struct {
	Auth              AuthHTTP
	Rooms             RoomHTTP
	OwnerRooms        OwnerRoomHTTP
	SessionMiddleware gin.HandlerFunc
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	if h.SessionMiddleware != nil {
		router.Use(h.SessionMiddleware)
	}

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Auth != nil {
		api.POST("/auth/register", h.Auth.Register)
		api.POST("/auth/login", h.Auth.Login)
		api.POST("/auth/logout", h.Auth.Logout)
		api.POST("/auth/logout/all", h.Auth.LogoutAll)
		api.PUT("/auth/password", h.Auth.ChangePassword)
		api.GET("/auth/me", h.Auth.Me)
	}
	if h.Rooms != nil {
		api.GET("/rooms", h.Rooms.List)
		api.GET("/rooms/:id", h.Rooms.Get)
	}
	if h.OwnerRooms != nil {
		ownerGroup := api.Group("/owner/rooms")
		ownerGroup.GET("", h.OwnerRooms.List)
		ownerGroup.POST("", h.OwnerRooms.Create)
		ownerGroup.GET("/:id", h.OwnerRooms.Get)
		ownerGroup.PUT("/:id", h.OwnerRooms.Update)
		ownerGroup.DELETE("/:id", h.OwnerRooms.Delete)
		ownerGroup.DELETE("/:id/images", h.OwnerRooms.RemoveImage)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
