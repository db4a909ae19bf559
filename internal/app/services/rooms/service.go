package rooms

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"roomly/internal/app/services/assets"
	domainrooms "roomly/internal/domain/rooms"
)

// EventPublisher emits room lifecycle events. Publishing is best-effort and
// never blocks a completed write from being reported as success.
type EventPublisher interface {
	Publish(ctx context.Context, event domainrooms.Event) error
}

// Service implements the owner-authenticated listing lifecycle: create,
// update and delete of rooms with their image set kept consistent with the
// object store.
type Service struct {
	Rooms  domainrooms.Repository
	Assets *assets.Manager
	Events EventPublisher
	Logger *slog.Logger
	Now    func() time.Time
}

// List returns rooms matching every provided filter predicate, newest first.
func (s *Service) List(ctx context.Context, filter domainrooms.ListFilter) ([]*domainrooms.Room, error) {
	return s.Rooms.List(ctx, filter.Normalized())
}

func (s *Service) ByID(ctx context.Context, id domainrooms.RoomID) (*domainrooms.Room, error) {
	return s.Rooms.ByID(ctx, id)
}

func (s *Service) ByOwner(ctx context.Context, owner domainrooms.OwnerID) ([]*domainrooms.Room, error) {
	return s.Rooms.ByOwner(ctx, owner)
}

func (s *Service) OwnedByID(ctx context.Context, id domainrooms.RoomID, owner domainrooms.OwnerID) (*domainrooms.Room, error) {
	return s.Rooms.OwnedByID(ctx, id, owner)
}

// Create validates the details, uploads the submitted images and persists a
// new room owned by owner. Validation failures never reach the stores.
func (s *Service) Create(ctx context.Context, owner domainrooms.OwnerID, details domainrooms.Details, files []assets.File) (*domainrooms.Room, error) {
	now := s.now()
	room, err := domainrooms.NewRoom(domainrooms.CreateParams{
		ID:      domainrooms.RoomID(uuid.NewString()),
		Owner:   owner,
		Details: details,
		Now:     now,
	})
	if err != nil {
		return nil, err
	}

	urls, err := s.uploadFiles(ctx, owner, files)
	if err != nil {
		return nil, err
	}
	room.AddImages(urls, now)

	if err := s.Rooms.Insert(ctx, room); err != nil {
		return nil, err
	}
	s.publish(ctx, domainrooms.Event{Type: domainrooms.RoomCreated, RoomID: room.ID, OwnerID: owner, At: now})
	if s.Logger != nil {
		s.Logger.Info("room created", "room_id", room.ID, "owner_id", owner, "images", len(room.Images))
	}
	return room, nil
}

// UpdateParams carries the replacement details plus the image set the caller
// wants to retain. New uploads are appended after the retained images.
type UpdateParams struct {
	Details        domainrooms.Details
	ExistingImages []string
}

// Update re-validates, uploads any new files and persists the room scoped by
// (id, owner). An id owned by someone else is indistinguishable from an
// absent id and surfaces as rooms.ErrNotFound. The owner-scoped fetch runs
// before any upload so files are never stored for a room the caller cannot
// touch, and the returned room carries the persisted CreatedAt.
func (s *Service) Update(ctx context.Context, id domainrooms.RoomID, owner domainrooms.OwnerID, params UpdateParams, files []assets.File) (*domainrooms.Room, error) {
	if err := params.Details.Validate(); err != nil {
		return nil, err
	}
	now := s.now()

	room, err := s.Rooms.OwnedByID(ctx, id, owner)
	if err != nil {
		return nil, err
	}

	urls, err := s.uploadFiles(ctx, owner, files)
	if err != nil {
		return nil, err
	}

	room.Images = append([]string(nil), params.ExistingImages...)
	if err := room.ApplyDetails(params.Details, now); err != nil {
		return nil, err
	}
	room.AddImages(urls, now)

	if err := s.Rooms.Update(ctx, room); err != nil {
		return nil, err
	}
	s.publish(ctx, domainrooms.Event{Type: domainrooms.RoomUpdated, RoomID: id, OwnerID: owner, At: now})
	if s.Logger != nil {
		s.Logger.Info("room updated", "room_id", id, "owner_id", owner, "images", len(room.Images))
	}
	return room, nil
}

// RemoveImage detaches imageURL from the room's image set and then deletes
// the underlying object best-effort. The listing row is updated first: the
// worst case is an orphaned stored object, never a room pointing at a dead
// URL. A failed row update aborts before any object deletion. Returns the
// remaining image set.
func (s *Service) RemoveImage(ctx context.Context, id domainrooms.RoomID, imageURL string, currentImages []string) ([]string, error) {
	remaining := domainrooms.WithoutImage(currentImages, imageURL)
	if err := s.Rooms.UpdateImages(ctx, id, remaining); err != nil {
		return nil, err
	}
	if len(remaining) != len(currentImages) {
		if s.Assets != nil {
			s.Assets.Remove(ctx, imageURL)
		}
		s.publish(ctx, domainrooms.Event{Type: domainrooms.RoomImagesChanged, RoomID: id, At: s.now()})
	}
	return remaining, nil
}

// Delete removes the room scoped by (id, owner). Stored image objects are
// left behind; detaching via RemoveImage is the cleanup path.
func (s *Service) Delete(ctx context.Context, id domainrooms.RoomID, owner domainrooms.OwnerID) error {
	if err := s.Rooms.Delete(ctx, id, owner); err != nil {
		return err
	}
	s.publish(ctx, domainrooms.Event{Type: domainrooms.RoomDeleted, RoomID: id, OwnerID: owner, At: s.now()})
	if s.Logger != nil {
		s.Logger.Info("room deleted", "room_id", id, "owner_id", owner)
	}
	return nil
}

func (s *Service) uploadFiles(ctx context.Context, owner domainrooms.OwnerID, files []assets.File) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}
	if s.Assets == nil {
		return nil, assets.ErrUploaderUnavailable
	}
	return s.Assets.Upload(ctx, owner, files)
}

func (s *Service) publish(ctx context.Context, event domainrooms.Event) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, event); err != nil && s.Logger != nil {
		s.Logger.Warn("room event publish failed", "type", event.Type, "room_id", event.RoomID, "error", err)
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// IsValidationError reports whether err is a room field validation failure,
// as opposed to a not-found or upstream store error.
func IsValidationError(err error) bool {
	switch {
	case errors.Is(err, domainrooms.ErrTitleRequired),
		errors.Is(err, domainrooms.ErrLocationRequired),
		errors.Is(err, domainrooms.ErrContactRequired),
		errors.Is(err, domainrooms.ErrRentInvalid),
		errors.Is(err, domainrooms.ErrPropertyType),
		errors.Is(err, domainrooms.ErrTenantPreference):
		return true
	}
	return false
}
