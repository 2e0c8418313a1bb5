package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"medguide/config"
	"medguide/internal/domain/gateway"
	"medguide/internal/normalizer"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type fakeSender struct {
	sent  []*gomail.Message
	err   error
	delay time.Duration
}

func (f *fakeSender) DialAndSend(m ...*gomail.Message) error {
	time.Sleep(f.delay)
	f.sent = append(f.sent, m...)
	return f.err
}

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	f.msgs = append(f.msgs, msgs...)
	return f.err
}

func (f *fakeWriter) Close() error { return nil }

type notifierFunc func(ctx context.Context, notice gateway.BookingNotice) error

func (f notifierFunc) NotifyBooking(ctx context.Context, notice gateway.BookingNotice) error {
	return f(ctx, notice)
}

func sampleNotice() gateway.BookingNotice {
	return gateway.BookingNotice{
		ID: 12,
		Record: normalizer.Record{
			"name":               "Ada Lovelace",
			"email":              "ada@example.com",
			"preferred_date":     "2025-01-05",
			"preferred_time":     "10:30",
			"chronic_conditions": "Asthma, Diabetes",
		},
		SubmittedAt: time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC),
	}
}

func TestNewEmailNotifier_RequiresAddresses(t *testing.T) {
	_, err := NewEmailNotifier(config.SMTPConfig{Host: "smtp.example.com", Port: 465})
	assert.Error(t, err)

	n, err := NewEmailNotifier(config.SMTPConfig{Host: "smtp.example.com", Port: 465, Sender: "clinic@example.com", Recipient: "desk@example.com"})
	require.NoError(t, err)
	assert.NotNil(t, n)
}

func TestEmailNotifier_NotifyBooking(t *testing.T) {
	sender := &fakeSender{}
	n := &EmailNotifier{sender: sender, from: "clinic@example.com", recipient: "desk@example.com"}

	require.NoError(t, n.NotifyBooking(context.Background(), sampleNotice()))
	require.Len(t, sender.sent, 1)

	msg := sender.sent[0]
	assert.Equal(t, []string{"New Patient Booking - Ada Lovelace (2025-01-02 09:00:00)"}, msg.GetHeader("Subject"))
	assert.Equal(t, []string{"desk@example.com"}, msg.GetHeader("To"))

	var raw bytes.Buffer
	_, err := msg.WriteTo(&raw)
	require.NoError(t, err)
	assert.Contains(t, raw.String(), `filename="Ada_Lovelace_2025-01-05_form.csv"`)
}

func TestEmailNotifier_Failures(t *testing.T) {
	t.Run("send error", func(t *testing.T) {
		n := &EmailNotifier{sender: &fakeSender{err: errors.New("auth failed")}, from: "a@x", recipient: "b@x"}
		assert.Error(t, n.NotifyBooking(context.Background(), sampleNotice()))
	})

	t.Run("deadline", func(t *testing.T) {
		n := &EmailNotifier{sender: &fakeSender{delay: 200 * time.Millisecond}, from: "a@x", recipient: "b@x"}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		assert.ErrorIs(t, n.NotifyBooking(ctx, sampleNotice()), context.DeadlineExceeded)
	})
}

func TestBookingCSV(t *testing.T) {
	out, err := bookingCSV(sampleNotice())
	require.NoError(t, err)
	assert.Contains(t, string(out), `"Asthma, Diabetes"`)
	assert.Contains(t, string(out), "2025-01-02 09:00:00")
}

func TestKafkaNotifier_NotifyBooking(t *testing.T) {
	w := &fakeWriter{}
	n := &KafkaNotifier{writer: w}

	require.NoError(t, n.NotifyBooking(context.Background(), sampleNotice()))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "12", string(w.msgs[0].Key))

	var event bookingEvent
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &event))
	assert.Equal(t, EventBookingCreated, event.Event)
	assert.Equal(t, "Ada Lovelace", event.Booking["name"])

	w.err = errors.New("leader not available")
	assert.Error(t, n.NotifyBooking(context.Background(), sampleNotice()))
}

func TestMulti_RunsAllAndJoinsErrors(t *testing.T) {
	var calls int
	ok := notifierFunc(func(context.Context, gateway.BookingNotice) error { calls++; return nil })
	boom := notifierFunc(func(context.Context, gateway.BookingNotice) error { calls++; return errors.New("boom") })

	err := Multi{boom, ok}.NotifyBooking(context.Background(), sampleNotice())
	assert.EqualError(t, err, "boom")
	assert.Equal(t, 2, calls)

	assert.NoError(t, Multi{}.NotifyBooking(context.Background(), sampleNotice()))
}
