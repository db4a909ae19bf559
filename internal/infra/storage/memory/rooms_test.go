package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	domainrooms "roomly/internal/domain/rooms"
)

func seedRoom(id, owner string, rent int64, location string, createdAt time.Time) *domainrooms.Room {
	return &domainrooms.Room{
		ID:               domainrooms.RoomID(id),
		Owner:            domainrooms.OwnerID(owner),
		Title:            "Room " + id,
		Location:         location,
		ContactNumber:    "+91 9000000000",
		Rent:             rent,
		PropertyType:     domainrooms.PropertyApartment,
		TenantPreference: domainrooms.TenantAnyone,
		CreatedAt:        createdAt,
		UpdatedAt:        createdAt,
	}
}

func TestRoomRepositoryListOrdering(t *testing.T) {
	repo := NewRoomRepository()
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "mid", "new"} {
		room := seedRoom(id, "o1", 5000, "Bangalore", base.Add(time.Duration(i)*time.Hour))
		if err := repo.Insert(context.Background(), room); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	rooms, err := repo.List(context.Background(), domainrooms.ListFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rooms) != 3 {
		t.Fatalf("got %d rooms", len(rooms))
	}
	for i, want := range []string{"new", "mid", "old"} {
		if string(rooms[i].ID) != want {
			t.Fatalf("order = [%s %s %s], want newest first", rooms[0].ID, rooms[1].ID, rooms[2].ID)
		}
	}
}

func TestRoomRepositoryListFilters(t *testing.T) {
	repo := NewRoomRepository()
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	cheap := seedRoom("cheap", "o1", 4000, "HSR Layout, Bangalore", now)
	pricey := seedRoom("pricey", "o2", 25000, "Indiranagar, Bangalore", now.Add(time.Minute))
	pricey.PropertyType = domainrooms.PropertyIndependentHouse
	for _, room := range []*domainrooms.Room{cheap, pricey} {
		if err := repo.Insert(context.Background(), room); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	tests := []struct {
		name   string
		filter domainrooms.ListFilter
		want   []string
	}{
		{"no filter", domainrooms.ListFilter{}, []string{"pricey", "cheap"}},
		{"location substring", domainrooms.ListFilter{Location: "hsr"}, []string{"cheap"}},
		{"min rent", domainrooms.ListFilter{MinRent: 10000}, []string{"pricey"}},
		{"max rent", domainrooms.ListFilter{MaxRent: 10000}, []string{"cheap"}},
		{"property type", domainrooms.ListFilter{PropertyType: "Independent House"}, []string{"pricey"}},
		{"conjunctive miss", domainrooms.ListFilter{Location: "hsr", MinRent: 10000}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rooms, err := repo.List(context.Background(), tt.filter)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(rooms) != len(tt.want) {
				t.Fatalf("got %d rooms, want %d", len(rooms), len(tt.want))
			}
			for i := range tt.want {
				if string(rooms[i].ID) != tt.want[i] {
					t.Fatalf("rooms[%d] = %s, want %s", i, rooms[i].ID, tt.want[i])
				}
			}
		})
	}
}

func TestRoomRepositoryOwnerScoping(t *testing.T) {
	repo := NewRoomRepository()
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	if err := repo.Insert(context.Background(), seedRoom("r1", "o1", 5000, "Bangalore", now)); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	if _, err := repo.OwnedByID(context.Background(), "r1", "o2"); !errors.Is(err, domainrooms.ErrNotFound) {
		t.Fatalf("OwnedByID cross-owner: got %v, want ErrNotFound", err)
	}
	if _, err := repo.OwnedByID(context.Background(), "r1", "o1"); err != nil {
		t.Fatalf("OwnedByID owner: %v", err)
	}

	cross := seedRoom("r1", "o2", 7777, "Elsewhere", now)
	if err := repo.Update(context.Background(), cross); !errors.Is(err, domainrooms.ErrNotFound) {
		t.Fatalf("Update cross-owner: got %v, want ErrNotFound", err)
	}
	if err := repo.Delete(context.Background(), "r1", "o2"); !errors.Is(err, domainrooms.ErrNotFound) {
		t.Fatalf("Delete cross-owner: got %v, want ErrNotFound", err)
	}
	if _, err := repo.ByID(context.Background(), "r1"); err != nil {
		t.Fatalf("row vanished after rejected writes: %v", err)
	}
}

func TestRoomRepositoryUpdatePreservesCreatedAt(t *testing.T) {
	repo := NewRoomRepository()
	created := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	if err := repo.Insert(context.Background(), seedRoom("r1", "o1", 5000, "Bangalore", created)); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	replacement := seedRoom("r1", "o1", 6000, "Bangalore", created.Add(48*time.Hour))
	if err := repo.Update(context.Background(), replacement); err != nil {
		t.Fatalf("Update: %v", err)
	}
	stored, err := repo.ByID(context.Background(), "r1")
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if !stored.CreatedAt.Equal(created) {
		t.Fatalf("CreatedAt overwritten: %v", stored.CreatedAt)
	}
	if stored.Rent != 6000 {
		t.Fatalf("rent = %d, want 6000", stored.Rent)
	}
}

func TestRoomRepositoryUpdateImagesIgnoresOwner(t *testing.T) {
	repo := NewRoomRepository()
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	room := seedRoom("r1", "o1", 5000, "Bangalore", now)
	room.Images = []string{"a", "b"}
	if err := repo.Insert(context.Background(), room); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	if err := repo.UpdateImages(context.Background(), "r1", []string{"b"}); err != nil {
		t.Fatalf("UpdateImages: %v", err)
	}
	stored, err := repo.ByID(context.Background(), "r1")
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if len(stored.Images) != 1 || stored.Images[0] != "b" {
		t.Fatalf("images = %v", stored.Images)
	}

	if err := repo.UpdateImages(context.Background(), "ghost", nil); !errors.Is(err, domainrooms.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestRoomRepositoryClonesOnReadAndWrite(t *testing.T) {
	repo := NewRoomRepository()
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	room := seedRoom("r1", "o1", 5000, "Bangalore", now)
	room.Images = []string{"a"}
	if err := repo.Insert(context.Background(), room); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	room.Images[0] = "mutated-by-caller"
	stored, err := repo.ByID(context.Background(), "r1")
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if stored.Images[0] != "a" {
		t.Fatal("repository shares the caller's slice")
	}

	stored.Images[0] = "mutated-by-reader"
	again, err := repo.ByID(context.Background(), "r1")
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if again.Images[0] != "a" {
		t.Fatal("read result aliases the stored slice")
	}
}
