// Package orderfeed hands finished order messages to fulfillment. It is the
// server-side clipboard: a checkout only succeeds once the message is taken.
package orderfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	EventOrderCopied = "OrderMessageCopied"
	eventVersion     = 1
	writeTimeout     = 5 * time.Second
)

type Envelope struct {
	EventID      string          `json:"event_id"`
	EventType    string          `json:"event_type"`
	EventVersion int             `json:"event_version"`
	OccurredAt   time.Time       `json:"occurred_at"`
	Producer     string          `json:"producer"`
	TraceID      string          `json:"trace_id,omitempty"`
	Payload      json.RawMessage `json:"payload"`
}

type CopiedPayload struct {
	OrderRef string `json:"order_ref"`
	Message  string `json:"message"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Kafka publishes each order message as one event. Writes are synchronous so
// a broker failure fails the checkout.
type Kafka struct {
	w        messageWriter
	producer string
	now      func() time.Time
	newID    func() string
}

func NewKafka(brokers []string, topic, producer string) *Kafka {
	return &Kafka{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		},
		producer: producer,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

func (k *Kafka) WriteText(ctx context.Context, text string) error {
	ref := k.newID()
	ev, err := k.envelope(ctx, ref, text)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	err = k.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ref),
		Value: ev,
		Time:  k.now(),
		Headers: []kafka.Header{
			{Key: "x-event-type", Value: []byte(EventOrderCopied)},
			{Key: "x-event-version", Value: []byte(fmt.Sprint(eventVersion))},
		},
	})
	if err != nil {
		return fmt.Errorf("publish order %s: %w", ref, err)
	}
	return nil
}

func (k *Kafka) envelope(ctx context.Context, ref, text string) ([]byte, error) {
	payload, err := json.Marshal(CopiedPayload{OrderRef: ref, Message: text})
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{
		EventID:      k.newID(),
		EventType:    EventOrderCopied,
		EventVersion: eventVersion,
		OccurredAt:   k.now().UTC(),
		Producer:     k.producer,
		TraceID:      chimw.GetReqID(ctx),
		Payload:      payload,
	})
}

func (k *Kafka) Close(context.Context) error { return k.w.Close() }

// Log only records the message. Used when no broker is configured.
type Log struct {
	Log *zap.Logger
}

func (l Log) WriteText(ctx context.Context, text string) error {
	l.Log.Info("order message",
		zap.String("request_id", chimw.GetReqID(ctx)),
		zap.String("message", text),
	)
	return nil
}
