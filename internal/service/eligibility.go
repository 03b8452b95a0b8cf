package service

import (
	"strings"
	"time"

	"github.com/gestevent/registration/internal/model"
)

// checkEligibility evaluates the event policy state machine, short-circuiting
// on the first failure. Ordering is deliberate: publication and window state
// come before quota/capacity so callers get the most actionable message.
// Quota and capacity are checked separately by the writer because they need
// participant counts.
func checkEligibility(evt *model.Event, now time.Time) *model.RegistrationError {
	if !strings.EqualFold(evt.Status, model.StatusPublished) {
		return model.ErrNotPublished
	}
	if !evt.IsOpen {
		return model.ErrClosed
	}
	if evt.SalesFrom != nil && evt.SalesFrom.After(now) {
		return model.ErrNotOpenYet
	}
	if evt.SalesUntil != nil && evt.SalesUntil.Before(now) {
		return model.ErrClosedPeriod
	}
	return nil
}
