package cart

import (
	"context"
	"time"
)

// Badge is the display collaborator showing the cart's item count.
// shown is true iff count > 0.
type Badge interface {
	Update(count int, shown bool)
}

// Notifier receives the transient acknowledgement raised after an add.
// Implementations must not block.
type Notifier interface {
	Notify(ctx context.Context, message string)
}

// Recorder receives cart activity for metrics.
type Recorder interface {
	IncMutation(op string)
	IncCheckout(outcome string)
	IncStorageFailure(op string)
	ObserveStorage(op string, duration time.Duration)
}

type nopBadge struct{}

func (nopBadge) Update(int, bool) {}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, string) {}

type nopRecorder struct{}

func (nopRecorder) IncMutation(string)                   {}
func (nopRecorder) IncCheckout(string)                   {}
func (nopRecorder) IncStorageFailure(string)             {}
func (nopRecorder) ObserveStorage(string, time.Duration) {}
