package tracking

import (
	"log"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/craftmandi/craft-finder/pkg/messaging"
	"github.com/craftmandi/craft-finder/pkg/types"
)

const trackingPrefix = "global"

type RabbitTracker struct {
	connection *amqp.Connection
	market     string
}

func NewRabbitTracker(url, market string) (*RabbitTracker, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	defer ch.Close()
	if err := messaging.DefineTopic(ch, trackingPrefix, messaging.TrackingEvents); err != nil {
		conn.Close()
		return nil, err
	}
	return &RabbitTracker{connection: conn, market: market}, nil
}

func (t *RabbitTracker) Close() error {
	return t.connection.Close()
}

type baseEvent struct {
	EventId   string `json:"event_id"`
	SessionId int    `json:"session_id"`
	Market    string `json:"market,omitempty"`
	Event     string `json:"event"`
}

type listingViewEvent struct {
	baseEvent
	CategoryId   string `json:"category_id"`
	CategoryName string `json:"category_name,omitempty"`
}

type filterChangeEvent struct {
	baseEvent
	CategoryId string             `json:"category_id"`
	Filters    *types.FilterState `json:"filters"`
	Sort       types.SortOrder    `json:"sort"`
}

func (t *RabbitTracker) send(data any) {
	if err := messaging.Publish(t.connection, trackingPrefix, messaging.TrackingEvents, data); err != nil {
		log.Printf("tracking publish failed: %v", err)
	}
}

func (t *RabbitTracker) TrackListingView(sessionId int, category types.CategoryRef) {
	go t.send(listingViewEvent{
		baseEvent:    t.base(sessionId, "listing_view"),
		CategoryId:   category.Id,
		CategoryName: category.Name,
	})
}

func (t *RabbitTracker) TrackFilterChange(sessionId int, category types.CategoryRef, filters *types.FilterState, sort types.SortOrder) {
	go t.send(filterChangeEvent{
		baseEvent:  t.base(sessionId, "filter_change"),
		CategoryId: category.Id,
		Filters:    filters,
		Sort:       sort,
	})
}

func (t *RabbitTracker) base(sessionId int, event string) baseEvent {
	return baseEvent{
		EventId:   uuid.NewString(),
		SessionId: sessionId,
		Market:    t.market,
		Event:     event,
	}
}
