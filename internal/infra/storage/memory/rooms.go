package memory

import (
	"context"
	"sort"
	"sync"

	domainrooms "roomly/internal/domain/rooms"
)

// RoomRepository keeps rooms in memory. Used for tests and for running the
// service without a configured MongoDB.
type RoomRepository struct {
	mu    sync.RWMutex
	items map[domainrooms.RoomID]*domainrooms.Room
}

func NewRoomRepository() *RoomRepository {
	return &RoomRepository{items: make(map[domainrooms.RoomID]*domainrooms.Room)}
}

func (r *RoomRepository) List(ctx context.Context, filter domainrooms.ListFilter) ([]*domainrooms.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]*domainrooms.Room, 0, len(r.items))
	for _, room := range r.items {
		if filter.Matches(room) {
			matches = append(matches, cloneRoom(room))
		}
	}
	sortNewestFirst(matches)
	return matches, nil
}

func (r *RoomRepository) ByID(ctx context.Context, id domainrooms.RoomID) (*domainrooms.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.items[id]
	if !ok {
		return nil, domainrooms.ErrNotFound
	}
	return cloneRoom(room), nil
}

func (r *RoomRepository) OwnedByID(ctx context.Context, id domainrooms.RoomID, owner domainrooms.OwnerID) (*domainrooms.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.items[id]
	if !ok || room.Owner != owner {
		return nil, domainrooms.ErrNotFound
	}
	return cloneRoom(room), nil
}

func (r *RoomRepository) ByOwner(ctx context.Context, owner domainrooms.OwnerID) ([]*domainrooms.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]*domainrooms.Room, 0)
	for _, room := range r.items {
		if room.Owner == owner {
			matches = append(matches, cloneRoom(room))
		}
	}
	sortNewestFirst(matches)
	return matches, nil
}

func (r *RoomRepository) Insert(ctx context.Context, room *domainrooms.Room) error {
	if room == nil {
		return domainrooms.ErrIDRequired
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[room.ID] = cloneRoom(room)
	return nil
}

func (r *RoomRepository) Update(ctx context.Context, room *domainrooms.Room) error {
	if room == nil {
		return domainrooms.ErrIDRequired
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.items[room.ID]
	if !ok || existing.Owner != room.Owner {
		return domainrooms.ErrNotFound
	}
	updated := cloneRoom(room)
	updated.CreatedAt = existing.CreatedAt
	r.items[room.ID] = updated
	return nil
}

func (r *RoomRepository) UpdateImages(ctx context.Context, id domainrooms.RoomID, images []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.items[id]
	if !ok {
		return domainrooms.ErrNotFound
	}
	existing.Images = append([]string(nil), images...)
	return nil
}

func (r *RoomRepository) Delete(ctx context.Context, id domainrooms.RoomID, owner domainrooms.OwnerID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.items[id]
	if !ok || existing.Owner != owner {
		return domainrooms.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func sortNewestFirst(rooms []*domainrooms.Room) {
	sort.SliceStable(rooms, func(i, j int) bool {
		return rooms[i].CreatedAt.After(rooms[j].CreatedAt)
	})
}

func cloneRoom(room *domainrooms.Room) *domainrooms.Room {
	if room == nil {
		return nil
	}
	copyRoom := *room
	copyRoom.Images = append([]string(nil), room.Images...)
	return &copyRoom
}

var _ domainrooms.Repository = (*RoomRepository)(nil)
