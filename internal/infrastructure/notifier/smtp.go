package notifier

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"medguide/config"
	"medguide/internal/domain/entity"
	"medguide/internal/domain/gateway"
	"medguide/internal/domain/schema"
	"medguide/internal/export"

	"gopkg.in/gomail.v2"
)

type mailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailNotifier mails the clinic a CSV copy of every new booking.
type EmailNotifier struct {
	sender    mailSender
	from      string
	recipient string
}

func NewEmailNotifier(cfg config.SMTPConfig) (*EmailNotifier, error) {
	if cfg.Host == "" || cfg.Sender == "" || cfg.Recipient == "" {
		return nil, errors.New("SMTP_HOST, SMTP_SENDER and SMTP_RECIPIENT are required for email notifications")
	}
	// gomail switches to implicit TLS on port 465.
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return &EmailNotifier{
		sender:    dialer,
		from:      cfg.Sender,
		recipient: cfg.Recipient,
	}, nil
}

func (n *EmailNotifier) NotifyBooking(ctx context.Context, notice gateway.BookingNotice) error {
	msg, err := n.message(notice)
	if err != nil {
		return err
	}

	// gomail has no context support; the send keeps running in the background after a timeout.
	done := make(chan error, 1)
	go func() {
		done <- n.sender.DialAndSend(msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send booking email: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("failed to send booking email: %w", ctx.Err())
	}
}

func (n *EmailNotifier) message(notice gateway.BookingNotice) (*gomail.Message, error) {
	name := notice.Record["name"]
	stamp := notice.SubmittedAt.Format(entity.TimestampLayout)

	attachment, err := bookingCSV(notice)
	if err != nil {
		return nil, fmt.Errorf("failed to render booking attachment: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", n.recipient)
	m.SetHeader("Subject", fmt.Sprintf("New Patient Booking - %s (%s)", name, stamp))
	m.SetBody("text/plain", fmt.Sprintf(
		"A new patient booking has been submitted.\n\nPatient: %s\nPreferred date: %s %s\n\nThe full form is attached as a CSV file.\n",
		name, notice.Record["preferred_date"], notice.Record["preferred_time"]))
	m.Attach(attachmentName(name, notice.Record["preferred_date"]), gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(attachment)
		return err
	}))

	return m, nil
}

func bookingCSV(notice gateway.BookingNotice) ([]byte, error) {
	row := make(map[string]string, len(notice.Record)+2)
	for k, v := range notice.Record {
		row[k] = v
	}
	row[schema.IdentityColumn] = strconv.FormatInt(notice.ID, 10)
	if row[schema.Bookings.StampColumn] == "" {
		row[schema.Bookings.StampColumn] = notice.SubmittedAt.Format(entity.TimestampLayout)
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, schema.Bookings.ColumnNames(), []map[string]string{row}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// attachmentName builds "<name>_<date>_form.csv" with path separators and spaces replaced.
func attachmentName(name, date string) string {
	clean := strings.NewReplacer("/", "_", "\\", "_", " ", "_").Replace(strings.TrimSpace(name))
	if clean == "" {
		clean = "patient"
	}
	return fmt.Sprintf("%s_%s_form.csv", clean, date)
}
