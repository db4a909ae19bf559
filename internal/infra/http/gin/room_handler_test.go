package ginserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gin "github.com/gin-gonic/gin"

	roomsvc "roomly/internal/app/services/rooms"
	domainrooms "roomly/internal/domain/rooms"
	"roomly/internal/infra/storage/memory"
)

func newBrowseFixture(t *testing.T) *gin.Engine {
	t.Helper()
	repo := memory.NewRoomRepository()
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	seed := []*domainrooms.Room{
		{
			ID: "pg-hsr", Owner: "o1", Title: "PG bed", Location: "HSR Layout, Bangalore",
			ContactNumber: "+91 9000000001", Rent: 6000,
			PropertyType: domainrooms.PropertyPG, TenantPreference: domainrooms.TenantMale,
			CreatedAt: base, UpdatedAt: base,
		},
		{
			ID: "flat-indiranagar", Owner: "o2", Title: "2BHK", Location: "Indiranagar, Bangalore",
			ContactNumber: "+91 9000000002", Rent: 30000,
			PropertyType: domainrooms.PropertyApartment, TenantPreference: domainrooms.TenantFamily,
			CreatedAt: base.Add(time.Hour), UpdatedAt: base.Add(time.Hour),
		},
	}
	for _, room := range seed {
		if err := repo.Insert(context.Background(), room); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	handler := RoomHandler{Service: &roomsvc.Service{Rooms: repo}}
	router := gin.New()
	router.GET("/api/v1/rooms", handler.List)
	router.GET("/api/v1/rooms/:id", handler.Get)
	return router
}

func browse(t *testing.T, router *gin.Engine, path string) ([]string, int) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		return nil, rec.Code
	}
	var payload struct {
		Rooms []struct {
			ID string `json:"id"`
		} `json:"rooms"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v (%s)", err, rec.Body.String())
	}
	ids := make([]string, 0, len(payload.Rooms))
	for _, room := range payload.Rooms {
		ids = append(ids, room.ID)
	}
	return ids, rec.Code
}

func TestRoomListFilters(t *testing.T) {
	router := newBrowseFixture(t)
	tests := []struct {
		name string
		path string
		want []string
	}{
		{"no filter, newest first", "/api/v1/rooms", []string{"flat-indiranagar", "pg-hsr"}},
		{"location substring", "/api/v1/rooms?location=hsr", []string{"pg-hsr"}},
		{"min rent", "/api/v1/rooms?minRent=10000", []string{"flat-indiranagar"}},
		{"max rent", "/api/v1/rooms?maxRent=10000", []string{"pg-hsr"}},
		{"property type", "/api/v1/rooms?propertyType=Apartment", []string{"flat-indiranagar"}},
		{"tenant preference", "/api/v1/rooms?tenantPreference=Male", []string{"pg-hsr"}},
		{"non-numeric rent imposes nothing", "/api/v1/rooms?minRent=cheap", []string{"flat-indiranagar", "pg-hsr"}},
		{"negative rent imposes nothing", "/api/v1/rooms?maxRent=-5", []string{"flat-indiranagar", "pg-hsr"}},
		{"conjunctive miss", "/api/v1/rooms?location=hsr&minRent=10000", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids, code := browse(t, router, tt.path)
			if code != http.StatusOK {
				t.Fatalf("status = %d", code)
			}
			if len(ids) != len(tt.want) {
				t.Fatalf("ids = %v, want %v", ids, tt.want)
			}
			for i := range tt.want {
				if ids[i] != tt.want[i] {
					t.Fatalf("ids = %v, want %v", ids, tt.want)
				}
			}
		})
	}
}

func TestRoomGet(t *testing.T) {
	router := newBrowseFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rooms/pg-hsr", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload["id"] != "pg-hsr" {
		t.Fatalf("id = %v", payload["id"])
	}
	if _, ok := payload["images"].([]any); !ok {
		t.Fatalf("images not an array: %v", payload["images"])
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/rooms/ghost", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
