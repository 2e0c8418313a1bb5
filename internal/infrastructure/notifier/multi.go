// Package notifier delivers booking notifications to clinic staff.
package notifier

import (
	"context"
	"errors"

	"medguide/internal/domain/gateway"
)

// Multi fans a notice out to every notifier and joins their failures.
// A failing notifier does not stop the others.
type Multi []gateway.Notifier

func (m Multi) NotifyBooking(ctx context.Context, notice gateway.BookingNotice) error {
	var errList []error
	for _, n := range m {
		if err := n.NotifyBooking(ctx, notice); err != nil {
			errList = append(errList, err)
		}
	}
	return errors.Join(errList...)
}
