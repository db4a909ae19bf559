package rooms

import "time"

type EventType string

const (
	RoomCreated       EventType = "room.created"
	RoomUpdated       EventType = "room.updated"
	RoomDeleted       EventType = "room.deleted"
	RoomImagesChanged EventType = "room.images_changed"
)

// Event describes a lifecycle change of a room record.
type Event struct {
	Type    EventType `json:"type"`
	RoomID  RoomID    `json:"room_id"`
	OwnerID OwnerID   `json:"owner_id,omitempty"`
	At      time.Time `json:"at"`
}
