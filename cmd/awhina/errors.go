package main

import (
	"os"
	"time"

	sentry "github.com/getsentry/sentry-go"
	"github.com/rjw57/awhina"
)

var sentryEnabled = false

func initErrorHandler() {
	if os.Getenv("SENTRY_DSN") != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn: os.Getenv("SENTRY_DSN"),
		})
		if err != nil {
			awhina.Logger.WithError(err).Fatal("sentry.Init")
		}
		sentryEnabled = true
	}
}

// handleError sends error to sentry if sentry configuration is available
func handleError(err error) {
	r := awhina.Logger.WithError(err)

	if sentryEnabled {
		eventID := sentry.CaptureException(err)
		if eventID != nil {
			r = r.WithField("sentry eventID", *eventID)
		}
	}

	r.Error("Abort")
}

// flushErrors flushes buffered events to sentry before exit
func flushErrors() {
	if sentryEnabled {
		sentry.Flush(2 * time.Second)
	}
}
