package dto

import (
	"time"

	domainrooms "roomly/internal/domain/rooms"
)

type Room struct {
	ID               string    `json:"id"`
	OwnerID          string    `json:"owner_id"`
	Title            string    `json:"title"`
	Description      string    `json:"description,omitempty"`
	Location         string    `json:"location"`
	ContactNumber    string    `json:"contact_number"`
	Rent             int64     `json:"rent"`
	PropertyType     string    `json:"property_type"`
	TenantPreference string    `json:"tenant_preference"`
	Images           []string  `json:"images"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func MapRoom(room *domainrooms.Room) Room {
	if room == nil {
		return Room{}
	}
	images := room.Images
	if images == nil {
		images = []string{}
	}
	return Room{
		ID:               string(room.ID),
		OwnerID:          string(room.Owner),
		Title:            room.Title,
		Description:      room.Description,
		Location:         room.Location,
		ContactNumber:    room.ContactNumber,
		Rent:             room.Rent,
		PropertyType:     string(room.PropertyType),
		TenantPreference: string(room.TenantPreference),
		Images:           append([]string(nil), images...),
		CreatedAt:        room.CreatedAt,
		UpdatedAt:        room.UpdatedAt,
	}
}

func MapRooms(rooms []*domainrooms.Room) []Room {
	out := make([]Room, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, MapRoom(room))
	}
	return out
}
