package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"

	domainrooms "roomly/internal/domain/rooms"
)

func TestRoomEventPublisherPublish(t *testing.T) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	mock := mocks.NewSyncProducer(t, cfg)
	mock.ExpectSendMessageWithCheckerFunctionAndSucceed(func(value []byte) error {
		var event domainrooms.Event
		return json.Unmarshal(value, &event)
	})

	publisher := &RoomEventPublisher{Producer: &Producer{sync: mock}, Topic: "rooms.lifecycle"}
	event := domainrooms.Event{
		Type:    domainrooms.RoomCreated,
		RoomID:  "r1",
		OwnerID: "o1",
		At:      time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	if err := publisher.Publish(context.Background(), event); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := mock.Close(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRoomEventPublisherSurfacesBrokerError(t *testing.T) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	mock := mocks.NewSyncProducer(t, cfg)
	mock.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	publisher := &RoomEventPublisher{Producer: &Producer{sync: mock}, Topic: "rooms.lifecycle"}
	if err := publisher.Publish(context.Background(), domainrooms.Event{Type: domainrooms.RoomDeleted, RoomID: "r1"}); err == nil {
		t.Fatal("expected broker error to surface")
	}
	if err := mock.Close(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
