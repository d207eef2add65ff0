package notifications

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/guilhermeoliveira05/Leading-Page-MFG/pkg/logger"
)

const (
	DefaultVisibleFor = 2 * time.Second
	DefaultExitFor    = 300 * time.Millisecond
)

// Phase is the lifecycle stage of a toast.
type Phase string

const (
	PhaseVisible Phase = "visible"
	PhaseLeaving Phase = "leaving"
	PhaseRemoved Phase = "removed"
)

// Toast is a transient acknowledgement shown to the shopper.
type Toast struct {
	ID        uuid.UUID `json:"id"`
	Message   string    `json:"message"`
	Phase     Phase     `json:"phase"`
	CreatedAt time.Time `json:"createdAt"`
}

// Options configures a Toaster. Zero durations fall back to the defaults.
type Options struct {
	VisibleFor time.Duration
	ExitFor    time.Duration
	// OnChange observes every phase transition. It runs outside the toaster lock.
	OnChange func(Toast)
	Logger   *logger.Logger
}

// Toaster keeps the toasts of one shopper. A toast stays visible for
// VisibleFor, then leaves for ExitFor, then is dropped. Transitions are not
// cancelable.
type Toaster struct {
	visibleFor time.Duration
	exitFor    time.Duration
	onChange   func(Toast)
	logg       *logger.Logger

	mu     sync.Mutex
	toasts []Toast
}

func NewToaster(opts Options) *Toaster {
	t := &Toaster{
		visibleFor: opts.VisibleFor,
		exitFor:    opts.ExitFor,
		onChange:   opts.OnChange,
		logg:       opts.Logger,
	}
	if t.visibleFor <= 0 {
		t.visibleFor = DefaultVisibleFor
	}
	if t.exitFor <= 0 {
		t.exitFor = DefaultExitFor
	}
	if t.logg == nil {
		t.logg = logger.Nop()
	}
	return t
}

// Notify raises a toast and returns immediately.
func (t *Toaster) Notify(ctx context.Context, message string) {
	toast := Toast{
		ID:        uuid.New(),
		Message:   message,
		Phase:     PhaseVisible,
		CreatedAt: time.Now().UTC(),
	}

	t.mu.Lock()
	t.toasts = append(t.toasts, toast)
	t.mu.Unlock()

	t.logg.Debug(t.logg.WithField(ctx, "toast_id", toast.ID.String()), "toast.shown")
	t.emit(toast)

	time.AfterFunc(t.visibleFor, func() {
		t.transition(toast.ID, PhaseLeaving)
		time.AfterFunc(t.exitFor, func() {
			t.transition(toast.ID, PhaseRemoved)
		})
	})
}

// Active returns the toasts not yet removed, oldest first.
func (t *Toaster) Active() []Toast {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Toast(nil), t.toasts...)
}

func (t *Toaster) transition(id uuid.UUID, phase Phase) {
	t.mu.Lock()
	idx := -1
	for i := range t.toasts {
		if t.toasts[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		t.mu.Unlock()
		return
	}
	toast := t.toasts[idx]
	toast.Phase = phase
	if phase == PhaseRemoved {
		t.toasts = append(t.toasts[:idx:idx], t.toasts[idx+1:]...)
	} else {
		t.toasts[idx] = toast
	}
	t.mu.Unlock()

	t.emit(toast)
}

func (t *Toaster) emit(toast Toast) {
	if t.onChange != nil {
		t.onChange(toast)
	}
}
