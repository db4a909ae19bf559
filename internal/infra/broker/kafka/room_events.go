package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	domainrooms "roomly/internal/domain/rooms"
)

// RoomEventPublisher emits room lifecycle events as JSON messages keyed by
// room id, so all events of one room land in the same partition in order.
type RoomEventPublisher struct {
	Producer *Producer
	Topic    string
}

func (p *RoomEventPublisher) Publish(ctx context.Context, event domainrooms.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka: encode room event: %w", err)
	}
	headers := map[string]string{"event_type": string(event.Type)}
	return p.Producer.Publish(ctx, p.Topic, string(event.RoomID), payload, headers)
}
