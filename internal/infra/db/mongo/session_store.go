package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainauth "roomly/internal/domain/auth"
	domainuser "roomly/internal/domain/user"
)

type SessionStore struct {
	col *mongo.Collection
}

func NewSessionStore(db *mongo.Database) *SessionStore {
	return &SessionStore{col: db.Collection("sessions")}
}

func (s *SessionStore) Save(ctx context.Context, session *domainauth.Session) error {
	if session == nil {
		return domainauth.ErrTokenRequired
	}
	doc := newSessionDocument(session)
	opts := options.Update().SetUpsert(true)
	if _, err := s.col.UpdateOne(ctx, bson.M{"_id": doc.Token}, bson.M{"$set": doc}, opts); err != nil {
		return fmt.Errorf("mongo: save session: %w", err)
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, token domainauth.Token) (*domainauth.Session, error) {
	var doc sessionDocument
	if err := s.col.FindOne(ctx, bson.M{"_id": string(token)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainauth.ErrSessionNotFound
		}
		return nil, fmt.Errorf("mongo: find session: %w", err)
	}
	return doc.toSession(), nil
}

func (s *SessionStore) Delete(ctx context.Context, token domainauth.Token) error {
	if _, err := s.col.DeleteOne(ctx, bson.M{"_id": string(token)}); err != nil {
		return fmt.Errorf("mongo: delete session: %w", err)
	}
	return nil
}

func (s *SessionStore) DeleteByUser(ctx context.Context, userID domainuser.ID) error {
	if _, err := s.col.DeleteMany(ctx, bson.M{"user_id": string(userID)}); err != nil {
		return fmt.Errorf("mongo: delete sessions by user: %w", err)
	}
	return nil
}

// EnsureIndexes sets up the TTL index that expires stale sessions server-side.
func (s *SessionStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at_ts", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		return fmt.Errorf("mongo: ensure session indexes: %w", err)
	}
	return nil
}

type sessionDocument struct {
	Token       string    `bson:"_id"`
	UserID      string    `bson:"user_id"`
	CreatedAt   int64     `bson:"created_at"`
	ExpiresAt   int64     `bson:"expires_at"`
	ExpiresAtTS time.Time `bson:"expires_at_ts"`
}

func newSessionDocument(session *domainauth.Session) sessionDocument {
	return sessionDocument{
		Token:       string(session.Token),
		UserID:      string(session.UserID),
		CreatedAt:   session.CreatedAt.UnixMilli(),
		ExpiresAt:   session.ExpiresAt.UnixMilli(),
		ExpiresAtTS: session.ExpiresAt,
	}
}

func (d sessionDocument) toSession() *domainauth.Session {
	return &domainauth.Session{
		Token:     domainauth.Token(d.Token),
		UserID:    domainuser.ID(d.UserID),
		CreatedAt: time.UnixMilli(d.CreatedAt).UTC(),
		ExpiresAt: time.UnixMilli(d.ExpiresAt).UTC(),
	}
}

var _ domainauth.SessionStore = (*SessionStore)(nil)
