package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainrooms "roomly/internal/domain/rooms"
)

// RoomRepository persists rooms in the "rooms" collection. Mutations are
// filtered by both id and owner so a known id alone never allows a
// cross-owner write.
type RoomRepository struct {
	col *mongo.Collection
}

func NewRoomRepository(db *mongo.Database) *RoomRepository {
	return &RoomRepository{col: db.Collection("rooms")}
}

func (r *RoomRepository) List(ctx context.Context, filter domainrooms.ListFilter) ([]*domainrooms.Room, error) {
	filter = filter.Normalized()
	query := bson.M{}
	if filter.Location != "" {
		query["location"] = bson.M{"$regex": regexp.QuoteMeta(filter.Location), "$options": "i"}
	}
	rent := bson.M{}
	if filter.MinRent > 0 {
		rent["$gte"] = filter.MinRent
	}
	if filter.MaxRent > 0 {
		rent["$lte"] = filter.MaxRent
	}
	if len(rent) > 0 {
		query["rent"] = rent
	}
	if filter.PropertyType != "" {
		query["property_type"] = filter.PropertyType
	}
	if filter.TenantPreference != "" {
		query["tenant_preference"] = filter.TenantPreference
	}
	return r.find(ctx, query)
}

func (r *RoomRepository) ByID(ctx context.Context, id domainrooms.RoomID) (*domainrooms.Room, error) {
	return r.findOne(ctx, bson.M{"_id": string(id)})
}

func (r *RoomRepository) OwnedByID(ctx context.Context, id domainrooms.RoomID, owner domainrooms.OwnerID) (*domainrooms.Room, error) {
	return r.findOne(ctx, bson.M{"_id": string(id), "owner_id": string(owner)})
}

func (r *RoomRepository) ByOwner(ctx context.Context, owner domainrooms.OwnerID) ([]*domainrooms.Room, error) {
	return r.find(ctx, bson.M{"owner_id": string(owner)})
}

func (r *RoomRepository) Insert(ctx context.Context, room *domainrooms.Room) error {
	if _, err := r.col.InsertOne(ctx, newRoomDocument(room)); err != nil {
		return fmt.Errorf("mongo: insert room: %w", err)
	}
	return nil
}

func (r *RoomRepository) Update(ctx context.Context, room *domainrooms.Room) error {
	filter := bson.M{"_id": string(room.ID), "owner_id": string(room.Owner)}
	update := bson.M{"$set": bson.M{
		"title":             room.Title,
		"description":       room.Description,
		"location":          room.Location,
		"contact_number":    room.ContactNumber,
		"rent":              room.Rent,
		"property_type":     string(room.PropertyType),
		"tenant_preference": string(room.TenantPreference),
		"images":            imagesOrEmpty(room.Images),
		"updated_at":        room.UpdatedAt.UnixMilli(),
	}}
	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("mongo: update room: %w", err)
	}
	if res.MatchedCount == 0 {
		return domainrooms.ErrNotFound
	}
	return nil
}

func (r *RoomRepository) UpdateImages(ctx context.Context, id domainrooms.RoomID, images []string) error {
	update := bson.M{"$set": bson.M{
		"images":     imagesOrEmpty(images),
		"updated_at": time.Now().UnixMilli(),
	}}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": string(id)}, update)
	if err != nil {
		return fmt.Errorf("mongo: update room images: %w", err)
	}
	if res.MatchedCount == 0 {
		return domainrooms.ErrNotFound
	}
	return nil
}

func (r *RoomRepository) Delete(ctx context.Context, id domainrooms.RoomID, owner domainrooms.OwnerID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id), "owner_id": string(owner)})
	if err != nil {
		return fmt.Errorf("mongo: delete room: %w", err)
	}
	if res.DeletedCount == 0 {
		return domainrooms.ErrNotFound
	}
	return nil
}

func (r *RoomRepository) findOne(ctx context.Context, filter bson.M) (*domainrooms.Room, error) {
	var doc roomDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainrooms.ErrNotFound
		}
		return nil, fmt.Errorf("mongo: find room: %w", err)
	}
	return doc.toRoom(), nil
}

func (r *RoomRepository) find(ctx context.Context, filter bson.M) ([]*domainrooms.Room, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: find rooms: %w", err)
	}
	defer cursor.Close(ctx)

	rooms := make([]*domainrooms.Room, 0)
	for cursor.Next(ctx) {
		var doc roomDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("mongo: decode room: %w", err)
		}
		rooms = append(rooms, doc.toRoom())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("mongo: iterate rooms: %w", err)
	}
	return rooms, nil
}

type roomDocument struct {
	ID               string   `bson:"_id"`
	OwnerID          string   `bson:"owner_id"`
	Title            string   `bson:"title"`
	Description      string   `bson:"description"`
	Location         string   `bson:"location"`
	ContactNumber    string   `bson:"contact_number"`
	Rent             int64    `bson:"rent"`
	PropertyType     string   `bson:"property_type"`
	TenantPreference string   `bson:"tenant_preference"`
	Images           []string `bson:"images"`
	CreatedAt        int64    `bson:"created_at"`
	UpdatedAt        int64    `bson:"updated_at"`
}

func newRoomDocument(room *domainrooms.Room) roomDocument {
	return roomDocument{
		ID:               string(room.ID),
		OwnerID:          string(room.Owner),
		Title:            room.Title,
		Description:      room.Description,
		Location:         room.Location,
		ContactNumber:    room.ContactNumber,
		Rent:             room.Rent,
		PropertyType:     string(room.PropertyType),
		TenantPreference: string(room.TenantPreference),
		Images:           imagesOrEmpty(room.Images),
		CreatedAt:        room.CreatedAt.UnixMilli(),
		UpdatedAt:        room.UpdatedAt.UnixMilli(),
	}
}

func (d roomDocument) toRoom() *domainrooms.Room {
	return &domainrooms.Room{
		ID:               domainrooms.RoomID(d.ID),
		Owner:            domainrooms.OwnerID(d.OwnerID),
		Title:            d.Title,
		Description:      d.Description,
		Location:         d.Location,
		ContactNumber:    d.ContactNumber,
		Rent:             d.Rent,
		PropertyType:     domainrooms.PropertyType(d.PropertyType),
		TenantPreference: domainrooms.TenantPreference(d.TenantPreference),
		Images:           append([]string(nil), d.Images...),
		CreatedAt:        timestampToTime(d.CreatedAt),
		UpdatedAt:        timestampToTime(d.UpdatedAt),
	}
}

func imagesOrEmpty(images []string) []string {
	if images == nil {
		return []string{}
	}
	return images
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

var _ domainrooms.Repository = (*RoomRepository)(nil)
