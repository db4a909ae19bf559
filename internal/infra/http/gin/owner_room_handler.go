package ginserver

import (
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	gin "github.com/gin-gonic/gin"

	"roomly/internal/app/dto"
	"roomly/internal/app/services/assets"
	roomsvc "roomly/internal/app/services/rooms"
	domainrooms "roomly/internal/domain/rooms"
)

const maxRoomImageSizeBytes int64 = 10 * 1024 * 1024

type OwnerRoomHTTP interface {
	List(c *gin.Context)
	Get(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	RemoveImage(c *gin.Context)
}

// OwnerRoomHandler serves the authenticated listing lifecycle. Every
// mutation is scoped to the caller's identity.
type OwnerRoomHandler struct {
	Service *roomsvc.Service
	Logger  *slog.Logger
}

func (h OwnerRoomHandler) List(c *gin.Context) {
	principal, ok := requireUser(c)
	if !ok {
		return
	}
	rooms, err := h.Service.ByOwner(c.Request.Context(), domainrooms.OwnerID(principal.ID))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rooms": dto.MapRooms(rooms)})
}

func (h OwnerRoomHandler) Get(c *gin.Context) {
	principal, ok := requireUser(c)
	if !ok {
		return
	}
	room, err := h.Service.OwnedByID(c.Request.Context(), domainrooms.RoomID(c.Param("id")), domainrooms.OwnerID(principal.ID))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapRoom(room))
}

func (h OwnerRoomHandler) Create(c *gin.Context) {
	principal, ok := requireUser(c)
	if !ok {
		return
	}
	details, err := roomDetailsFromForm(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	files, closeFiles, err := imageFilesFromForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer closeFiles()

	room, err := h.Service.Create(c.Request.Context(), domainrooms.OwnerID(principal.ID), details, files)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.Header("Location", fmt.Sprintf("/api/v1/rooms/%s", room.ID))
	c.JSON(http.StatusCreated, dto.MapRoom(room))
}

func (h OwnerRoomHandler) Update(c *gin.Context) {
	principal, ok := requireUser(c)
	if !ok {
		return
	}
	details, err := roomDetailsFromForm(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	files, closeFiles, err := imageFilesFromForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer closeFiles()

	params := roomsvc.UpdateParams{
		Details:        details,
		ExistingImages: existingImagesFromForm(c),
	}
	room, err := h.Service.Update(c.Request.Context(), domainrooms.RoomID(c.Param("id")), domainrooms.OwnerID(principal.ID), params, files)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapRoom(room))
}

func (h OwnerRoomHandler) Delete(c *gin.Context) {
	principal, ok := requireUser(c)
	if !ok {
		return
	}
	if err := h.Service.Delete(c.Request.Context(), domainrooms.RoomID(c.Param("id")), domainrooms.OwnerID(principal.ID)); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type removeImageRequest struct {
	ImageURL string `json:"image_url"`
}

func (h OwnerRoomHandler) RemoveImage(c *gin.Context) {
	principal, ok := requireUser(c)
	if !ok {
		return
	}
	var req removeImageRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.ImageURL) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image_url is required"})
		return
	}

	// Establishes ownership before the id-only image update below.
	room, err := h.Service.OwnedByID(c.Request.Context(), domainrooms.RoomID(c.Param("id")), domainrooms.OwnerID(principal.ID))
	if err != nil {
		h.respondError(c, err)
		return
	}

	remaining, err := h.Service.RemoveImage(c.Request.Context(), room.ID, req.ImageURL, room.Images)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"images": remaining})
}

func (h OwnerRoomHandler) respondError(c *gin.Context, err error) {
	switch {
	case roomsvc.IsValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domainrooms.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
	default:
		if h.Logger != nil {
			h.Logger.Error("owner room request failed", "error", err, "path", c.FullPath())
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "store unavailable, please retry"})
	}
}

func roomDetailsFromForm(c *gin.Context) (domainrooms.Details, error) {
	rentRaw := strings.TrimSpace(c.PostForm("rent"))
	rent, err := strconv.ParseInt(rentRaw, 10, 64)
	if err != nil {
		return domainrooms.Details{}, domainrooms.ErrRentInvalid
	}

	propertyType := strings.TrimSpace(c.PostForm("property_type"))
	if propertyType == "" {
		propertyType = string(domainrooms.PropertyApartment)
	}
	tenantPreference := strings.TrimSpace(c.PostForm("tenant_preference"))
	if tenantPreference == "" {
		tenantPreference = string(domainrooms.TenantAnyone)
	}

	return domainrooms.Details{
		Title:            c.PostForm("title"),
		Description:      c.PostForm("description"),
		Location:         c.PostForm("location"),
		ContactNumber:    c.PostForm("contact_number"),
		Rent:             rent,
		PropertyType:     domainrooms.PropertyType(propertyType),
		TenantPreference: domainrooms.TenantPreference(tenantPreference),
	}, nil
}

func existingImagesFromForm(c *gin.Context) []string {
	values := c.PostFormArray("existing_images")
	out := make([]string, 0, len(values))
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			out = append(out, value)
		}
	}
	return out
}

// imageFilesFromForm extracts the uploaded image files in submission order.
// The returned closer releases every opened file.
func imageFilesFromForm(c *gin.Context) ([]assets.File, func(), error) {
	noop := func() {}
	form, err := c.MultipartForm()
	if err != nil {
		// Not a multipart request: nothing to upload.
		return nil, noop, nil
	}
	headers := form.File["images"]
	files := make([]assets.File, 0, len(headers))
	opened := make([]multipart.File, 0, len(headers))
	closeAll := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}
	for _, header := range headers {
		if header.Size == 0 {
			continue
		}
		if header.Size > maxRoomImageSizeBytes {
			closeAll()
			return nil, noop, fmt.Errorf("file %s too large (max %d MB)", header.Filename, maxRoomImageSizeBytes/1024/1024)
		}
		file, err := header.Open()
		if err != nil {
			closeAll()
			return nil, noop, fmt.Errorf("cannot read file %s", header.Filename)
		}
		opened = append(opened, file)
		files = append(files, assets.File{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Reader:      file,
		})
	}
	return files, closeAll, nil
}
