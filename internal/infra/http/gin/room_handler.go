package ginserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	gin "github.com/gin-gonic/gin"

	"roomly/internal/app/dto"
	roomsvc "roomly/internal/app/services/rooms"
	domainrooms "roomly/internal/domain/rooms"
)

type RoomHTTP interface {
	List(c *gin.Context)
	Get(c *gin.Context)
}

// RoomHandler serves the public browse and detail surfaces. Reads are open
// to anonymous callers.
type RoomHandler struct {
	Service *roomsvc.Service
	Logger  *slog.Logger
}

func (h RoomHandler) List(c *gin.Context) {
	filter := domainrooms.ListFilter{
		Location:         strings.TrimSpace(c.Query("location")),
		MinRent:          parseRent(c.Query("minRent")),
		MaxRent:          parseRent(c.Query("maxRent")),
		PropertyType:     strings.TrimSpace(c.Query("propertyType")),
		TenantPreference: strings.TrimSpace(c.Query("tenantPreference")),
	}
	rooms, err := h.Service.List(c.Request.Context(), filter)
	if err != nil {
		h.respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rooms": dto.MapRooms(rooms)})
}

func (h RoomHandler) Get(c *gin.Context) {
	room, err := h.Service.ByID(c.Request.Context(), domainrooms.RoomID(c.Param("id")))
	if err != nil {
		if errors.Is(err, domainrooms.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
		h.respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapRoom(room))
}

func (h RoomHandler) respondStoreError(c *gin.Context, err error) {
	if h.Logger != nil {
		h.Logger.Error("room read failed", "error", err, "path", c.FullPath())
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": "store unavailable, please retry"})
}

// parseRent interprets a browse-surface rent bound. Blank or non-numeric
// values impose no restriction.
func parseRent(raw string) int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value < 0 {
		return 0
	}
	return value
}
