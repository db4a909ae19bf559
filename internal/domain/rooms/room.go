package rooms

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrIDRequired       = errors.New("rooms: id is required")
	ErrOwnerRequired    = errors.New("rooms: owner is required")
	ErrTitleRequired    = errors.New("rooms: title is required")
	ErrLocationRequired = errors.New("rooms: location is required")
	ErrContactRequired  = errors.New("rooms: contact number is required")
	ErrRentInvalid      = errors.New("rooms: rent must be a positive number")
	ErrPropertyType     = errors.New("rooms: unknown property type")
	ErrTenantPreference = errors.New("rooms: unknown tenant preference")
	ErrNotFound         = errors.New("rooms: not found")
)

type RoomID string
type OwnerID string

type PropertyType string

const (
	PropertyApartment        PropertyType = "Apartment"
	PropertyIndependentHouse PropertyType = "Independent House"
	PropertyPG               PropertyType = "PG"
)

type TenantPreference string

const (
	TenantAnyone TenantPreference = "Anyone"
	TenantMale   TenantPreference = "Male"
	TenantFemale TenantPreference = "Female"
	TenantFamily TenantPreference = "Family"
)

// ParsePropertyType maps free-form input onto the closed property type set.
func ParsePropertyType(value string) (PropertyType, error) {
	switch PropertyType(strings.TrimSpace(value)) {
	case PropertyApartment:
		return PropertyApartment, nil
	case PropertyIndependentHouse:
		return PropertyIndependentHouse, nil
	case PropertyPG:
		return PropertyPG, nil
	default:
		return "", ErrPropertyType
	}
}

// ParseTenantPreference maps free-form input onto the closed preference set.
func ParseTenantPreference(value string) (TenantPreference, error) {
	switch TenantPreference(strings.TrimSpace(value)) {
	case TenantAnyone:
		return TenantAnyone, nil
	case TenantMale:
		return TenantMale, nil
	case TenantFemale:
		return TenantFemale, nil
	case TenantFamily:
		return TenantFamily, nil
	default:
		return "", ErrTenantPreference
	}
}

// Room is a single room-for-rent record owned by one identity.
type Room struct {
	ID               RoomID
	Owner            OwnerID
	Title            string
	Description      string
	Location         string
	ContactNumber    string
	Rent             int64
	PropertyType     PropertyType
	TenantPreference TenantPreference
	Images           []string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Details carries the owner-editable fields of a room. Validation happens
// before any store or upload call is made.
type Details struct {
	Title            string
	Description      string
	Location         string
	ContactNumber    string
	Rent             int64
	PropertyType     PropertyType
	TenantPreference TenantPreference
}

func (d Details) normalized() Details {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	d.Location = strings.TrimSpace(d.Location)
	d.ContactNumber = strings.TrimSpace(d.ContactNumber)
	return d
}

func (d Details) Validate() error {
	d = d.normalized()
	if d.Title == "" {
		return ErrTitleRequired
	}
	if d.Location == "" {
		return ErrLocationRequired
	}
	if d.ContactNumber == "" {
		return ErrContactRequired
	}
	if d.Rent <= 0 {
		return ErrRentInvalid
	}
	if _, err := ParsePropertyType(string(d.PropertyType)); err != nil {
		return err
	}
	if _, err := ParseTenantPreference(string(d.TenantPreference)); err != nil {
		return err
	}
	return nil
}

type CreateParams struct {
	ID      RoomID
	Owner   OwnerID
	Details Details
	Images  []string
	Now     time.Time
}

func NewRoom(params CreateParams) (*Room, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, ErrIDRequired
	}
	if strings.TrimSpace(string(params.Owner)) == "" {
		return nil, ErrOwnerRequired
	}
	details := params.Details.normalized()
	if err := details.Validate(); err != nil {
		return nil, err
	}
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()

	return &Room{
		ID:               params.ID,
		Owner:            params.Owner,
		Title:            details.Title,
		Description:      details.Description,
		Location:         details.Location,
		ContactNumber:    details.ContactNumber,
		Rent:             details.Rent,
		PropertyType:     details.PropertyType,
		TenantPreference: details.TenantPreference,
		Images:           append([]string(nil), params.Images...),
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// ApplyDetails replaces the editable fields. Images are untouched.
func (r *Room) ApplyDetails(details Details, now time.Time) error {
	details = details.normalized()
	if err := details.Validate(); err != nil {
		return err
	}
	r.Title = details.Title
	r.Description = details.Description
	r.Location = details.Location
	r.ContactNumber = details.ContactNumber
	r.Rent = details.Rent
	r.PropertyType = details.PropertyType
	r.TenantPreference = details.TenantPreference
	r.touch(now)
	return nil
}

// AddImages appends uploaded URLs after any existing images. Order reflects
// the append sequence.
func (r *Room) AddImages(urls []string, now time.Time) {
	if len(urls) == 0 {
		return
	}
	r.Images = append(r.Images, urls...)
	r.touch(now)
}

func (r *Room) touch(now time.Time) {
	if now.IsZero() {
		now = time.Now()
	}
	r.UpdatedAt = now.UTC()
}

// WithoutImage returns a copy of images with every occurrence of url removed.
// A url that is not present yields an identical set.
func WithoutImage(images []string, url string) []string {
	out := make([]string, 0, len(images))
	for _, existing := range images {
		if existing == url {
			continue
		}
		out = append(out, existing)
	}
	return out
}

// Repository persists rooms. Reads are public; mutations are owner scoped so
// that a known id alone never allows a cross-owner write.
type Repository interface {
	List(ctx context.Context, filter ListFilter) ([]*Room, error)
	ByID(ctx context.Context, id RoomID) (*Room, error)
	OwnedByID(ctx context.Context, id RoomID, owner OwnerID) (*Room, error)
	ByOwner(ctx context.Context, owner OwnerID) ([]*Room, error)
	Insert(ctx context.Context, room *Room) error
	// Update persists the editable fields and image set, filtered by both
	// room id and owner. A zero-row match surfaces as ErrNotFound whether the
	// id is absent or owned by someone else.
	Update(ctx context.Context, room *Room) error
	// UpdateImages replaces the image set, filtered by id only. Ownership
	// must already have been established by the caller context.
	UpdateImages(ctx context.Context, id RoomID, images []string) error
	Delete(ctx context.Context, id RoomID, owner OwnerID) error
}
