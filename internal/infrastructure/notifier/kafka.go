package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"medguide/internal/domain/gateway"

	"github.com/segmentio/kafka-go"
)

const EventBookingCreated = "booking.created"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaNotifier publishes a booking.created event keyed by booking id.
type KafkaNotifier struct {
	writer messageWriter
}

type bookingEvent struct {
	Event       string            `json:"event"`
	ID          int64             `json:"id"`
	SubmittedAt time.Time         `json:"submitted_at"`
	Booking     map[string]string `json:"booking"`
}

func NewKafkaNotifier(brokers []string, topic string) *KafkaNotifier {
	return &KafkaNotifier{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.LeastBytes{},
			BatchTimeout:           50 * time.Millisecond,
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		},
	}
}

func (n *KafkaNotifier) NotifyBooking(ctx context.Context, notice gateway.BookingNotice) error {
	value, err := json.Marshal(bookingEvent{
		Event:       EventBookingCreated,
		ID:          notice.ID,
		SubmittedAt: notice.SubmittedAt.UTC(),
		Booking:     notice.Record,
	})
	if err != nil {
		return fmt.Errorf("failed to encode booking event: %w", err)
	}

	err = n.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(notice.ID, 10)),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("failed to publish booking event: %w", err)
	}
	return nil
}

func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}
