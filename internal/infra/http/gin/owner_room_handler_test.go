package ginserver

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gin "github.com/gin-gonic/gin"

	"roomly/internal/app/services/assets"
	authsvc "roomly/internal/app/services/auth"
	roomsvc "roomly/internal/app/services/rooms"
	"roomly/internal/infra/storage/memory"
)

type ownerFixture struct {
	router   *gin.Engine
	uploader *memory.Uploader
	token    string
}

func newOwnerFixture(t *testing.T) *ownerFixture {
	t.Helper()
	authService := &authsvc.Service{
		Users:      memory.NewUserRepository(),
		Sessions:   memory.NewSessionStore(),
		Passwords:  plainHasher{},
		Tokens:     &sequenceTokens{},
		SessionTTL: time.Hour,
	}
	result, err := authService.Register(t.Context(), authsvc.RegisterParams{
		Email:    "owner@example.com",
		Name:     "Owner",
		Password: "supersecret",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	uploader := memory.NewUploader("room-images", "http://cdn.local")
	roomService := &roomsvc.Service{
		Rooms:  memory.NewRoomRepository(),
		Assets: &assets.Manager{Uploader: uploader, Bucket: "room-images"},
	}

	mw := SessionMiddleware{Service: authService, CookieName: "roomly_session"}
	handler := OwnerRoomHandler{Service: roomService}
	router := gin.New()
	router.Use(mw.Handle)
	group := router.Group("/api/v1/owner/rooms")
	group.GET("", handler.List)
	group.POST("", handler.Create)
	group.GET("/:id", handler.Get)
	group.PUT("/:id", handler.Update)
	group.DELETE("/:id", handler.Delete)
	group.DELETE("/:id/images", handler.RemoveImage)

	return &ownerFixture{router: router, uploader: uploader, token: result.Token}
}

func (f *ownerFixture) do(t *testing.T, method, path, contentType string, body *bytes.Buffer, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if authed {
		req.AddCookie(&http.Cookie{Name: "roomly_session", Value: f.token})
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func roomForm(t *testing.T, fields map[string]string, imageNames []string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("WriteField: %v", err)
		}
	}
	for _, name := range imageNames {
		part, err := writer.CreateFormFile("images", name)
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		if _, err := part.Write([]byte("image-bytes")); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return body, writer.FormDataContentType()
}

func validRoomFields() map[string]string {
	return map[string]string{
		"title":             "Studio near metro",
		"description":       "Compact and bright",
		"location":          "Jayanagar, Bangalore",
		"contact_number":    "+91 9222222222",
		"rent":              "8500",
		"property_type":     "PG",
		"tenant_preference": "Female",
	}
}

func decodeRoom(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
	}
	return payload
}

func TestOwnerRoomsRequireAuthentication(t *testing.T) {
	fx := newOwnerFixture(t)
	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/owner/rooms"},
		{http.MethodPost, "/api/v1/owner/rooms"},
		{http.MethodGet, "/api/v1/owner/rooms/r1"},
		{http.MethodPut, "/api/v1/owner/rooms/r1"},
		{http.MethodDelete, "/api/v1/owner/rooms/r1"},
		{http.MethodDelete, "/api/v1/owner/rooms/r1/images"},
	}
	for _, tt := range paths {
		rec := fx.do(t, tt.method, tt.path, "", nil, false)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s = %d, want 401", tt.method, tt.path, rec.Code)
		}
	}
}

func TestOwnerRoomCreate(t *testing.T) {
	fx := newOwnerFixture(t)
	body, contentType := roomForm(t, validRoomFields(), []string{"front.jpg", "side.png"})

	rec := fx.do(t, http.MethodPost, "/api/v1/owner/rooms", contentType, body, true)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); !strings.HasPrefix(loc, "/api/v1/rooms/") {
		t.Fatalf("Location = %q", loc)
	}
	payload := decodeRoom(t, rec)
	images, ok := payload["images"].([]any)
	if !ok || len(images) != 2 {
		t.Fatalf("images = %v", payload["images"])
	}
	if fx.uploader.Len() != 2 {
		t.Fatalf("stored objects = %d, want 2", fx.uploader.Len())
	}
}

func TestOwnerRoomCreateValidation(t *testing.T) {
	fx := newOwnerFixture(t)

	t.Run("missing rent", func(t *testing.T) {
		fields := validRoomFields()
		delete(fields, "rent")
		body, contentType := roomForm(t, fields, nil)
		rec := fx.do(t, http.MethodPost, "/api/v1/owner/rooms", contentType, body, true)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("blank title", func(t *testing.T) {
		fields := validRoomFields()
		fields["title"] = "  "
		body, contentType := roomForm(t, fields, nil)
		rec := fx.do(t, http.MethodPost, "/api/v1/owner/rooms", contentType, body, true)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
		}
		if fx.uploader.Len() != 0 {
			t.Fatalf("objects uploaded despite validation failure: %d", fx.uploader.Len())
		}
	})
}

func TestOwnerRoomUpdateAndGet(t *testing.T) {
	fx := newOwnerFixture(t)
	body, contentType := roomForm(t, validRoomFields(), nil)
	rec := fx.do(t, http.MethodPost, "/api/v1/owner/rooms", contentType, body, true)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: %d", rec.Code)
	}
	created := decodeRoom(t, rec)
	roomID := created["id"].(string)

	fields := validRoomFields()
	fields["rent"] = "9100"
	body, contentType = roomForm(t, fields, nil)
	rec = fx.do(t, http.MethodPut, "/api/v1/owner/rooms/"+roomID, contentType, body, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: %d: %s", rec.Code, rec.Body.String())
	}
	if got := decodeRoom(t, rec)["created_at"]; got != created["created_at"] {
		t.Fatalf("update response created_at = %v, create returned %v", got, created["created_at"])
	}

	rec = fx.do(t, http.MethodGet, "/api/v1/owner/rooms/"+roomID, "", nil, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: %d", rec.Code)
	}
	if rent := decodeRoom(t, rec)["rent"].(float64); rent != 9100 {
		t.Fatalf("rent = %v, want 9100", rent)
	}
}

func TestOwnerRoomRemoveImage(t *testing.T) {
	fx := newOwnerFixture(t)
	body, contentType := roomForm(t, validRoomFields(), []string{"front.jpg"})
	rec := fx.do(t, http.MethodPost, "/api/v1/owner/rooms", contentType, body, true)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: %d", rec.Code)
	}
	payload := decodeRoom(t, rec)
	roomID := payload["id"].(string)
	imageURL := payload["images"].([]any)[0].(string)

	reqBody, err := json.Marshal(map[string]string{"image_url": imageURL})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	rec = fx.do(t, http.MethodDelete, "/api/v1/owner/rooms/"+roomID+"/images", "application/json", bytes.NewBuffer(reqBody), true)
	if rec.Code != http.StatusOK {
		t.Fatalf("remove image: %d: %s", rec.Code, rec.Body.String())
	}
	images, ok := decodeRoom(t, rec)["images"].([]any)
	if !ok || len(images) != 0 {
		t.Fatalf("images after removal = %v", images)
	}
	if fx.uploader.Len() != 0 {
		t.Fatalf("object left in store: %d", fx.uploader.Len())
	}

	t.Run("blank url rejected", func(t *testing.T) {
		rec := fx.do(t, http.MethodDelete, "/api/v1/owner/rooms/"+roomID+"/images", "application/json", bytes.NewBufferString(`{"image_url":""}`), true)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", rec.Code)
		}
	})
}

func TestOwnerRoomDelete(t *testing.T) {
	fx := newOwnerFixture(t)
	body, contentType := roomForm(t, validRoomFields(), nil)
	rec := fx.do(t, http.MethodPost, "/api/v1/owner/rooms", contentType, body, true)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: %d", rec.Code)
	}
	roomID := decodeRoom(t, rec)["id"].(string)

	rec = fx.do(t, http.MethodDelete, "/api/v1/owner/rooms/"+roomID, "", nil, true)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: %d", rec.Code)
	}
	rec = fx.do(t, http.MethodGet, "/api/v1/owner/rooms/"+roomID, "", nil, true)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete: %d", rec.Code)
	}
	rec = fx.do(t, http.MethodDelete, "/api/v1/owner/rooms/"+roomID, "", nil, true)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("repeat delete: %d", rec.Code)
	}
}
