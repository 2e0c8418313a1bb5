package monitoring

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
)

// InitSentry is a no-op when dsn is empty.
func InitSentry(dsn, environment string) error {
	if dsn == "" {
		return nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      environment,
		Release:          "medguide",
		TracesSampleRate: 0.2,
		AttachStacktrace: true,
	})
	if err != nil {
		return fmt.Errorf("sentry initialization failed: %w", err)
	}
	return nil
}

func FlushSentry() {
	sentry.Flush(2 * time.Second)
}

func CaptureError(err error, extras map[string]interface{}) {
	if err == nil {
		return
	}
	if hub := sentry.CurrentHub(); hub != nil {
		hub.WithScope(func(scope *sentry.Scope) {
			for k, v := range extras {
				scope.SetExtra(k, v)
			}
			hub.CaptureException(err)
		})
	}
}
