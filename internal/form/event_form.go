// Package form carries the dependent-field workflows behind the event and
// place editors: debounced, generation-stamped lookups whose resolved
// state gates submission. Only the most recently scheduled lookup may
// mutate controller state; superseded completions are dropped.
package form

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/eventmanager/admin-bff/internal/datetime"
	"github.com/eventmanager/admin-bff/internal/domain"
	"github.com/go-playground/validator/v10"
)

const eventDebounce = 350 * time.Millisecond

// AvailabilityLookup fetches the places free for an interval. Both values
// are in backend wire format.
type AvailabilityLookup interface {
	Available(ctx context.Context, startsAt, finishesAt string) ([]domain.Place, error)
}

// EventForm keeps the selectable place set consistent with the currently
// entered interval. A partial interval never justifies a selection: while
// either date is blank the options, errors and any chosen place are
// cleared and no lookup runs.
type EventForm struct {
	mu       sync.Mutex
	lookup   AvailabilityLookup
	validate *validator.Validate
	debounce time.Duration

	name        string
	startsAt    string
	finishesAt  string
	placeCode   string
	description string

	options   []domain.PlaceOption
	loading   bool
	lookupErr string

	gen   uint64
	timer *time.Timer
}

// EventFormState is a point-in-time snapshot for rendering and tests.
type EventFormState struct {
	Name        string
	StartsAt    string
	FinishesAt  string
	PlaceCode   string
	Description string
	Options     []domain.PlaceOption
	Loading     bool
	LookupError string
}

// Placeholder mirrors the dropdown's empty-option label.
func (s EventFormState) Placeholder() string {
	switch {
	case s.StartsAt == "" || s.FinishesAt == "":
		return "Fill dates to load available places"
	case s.Loading:
		return "Loading places..."
	case len(s.Options) == 0:
		return "No available places"
	default:
		return "Select a place"
	}
}

type EventFormOption func(*EventForm)

// WithEventDebounce overrides the quiet period. Tests use short values.
func WithEventDebounce(d time.Duration) EventFormOption {
	return func(f *EventForm) { f.debounce = d }
}

func NewEventForm(lookup AvailabilityLookup, opts ...EventFormOption) *EventForm {
	f := &EventForm{
		lookup:   lookup,
		validate: newValidator(),
		debounce: eventDebounce,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Hydrate loads a fetched event into the draft for the edit flow. Wire
// dates are converted back to input form. No lookup is scheduled; edits
// do that.
func (f *EventForm) Hydrate(ev domain.EventUpsert) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.name = ev.Name
	f.startsAt = datetime.ToInput(ev.StartsAt)
	f.finishesAt = datetime.ToInput(ev.FinishesAt)
	f.placeCode = ev.PlaceCode
	if ev.Description != nil {
		f.description = *ev.Description
	}
}

func (f *EventForm) SetName(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.name = v
}

func (f *EventForm) SetDescription(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.description = v
}

func (f *EventForm) SetStartsAt(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.startsAt = v
	f.onIntervalChanged()
}

func (f *EventForm) SetFinishesAt(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finishesAt = v
	f.onIntervalChanged()
}

// SelectPlace picks an option by code. The selection must reference a
// currently valid option; "" clears it.
func (f *EventForm) SelectPlace(code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if code == "" {
		f.placeCode = ""
		return nil
	}
	for _, opt := range f.options {
		if opt.Value == code {
			f.placeCode = code
			return nil
		}
	}
	return FieldError{Field: "placeCode", Message: "Place is not available for this interval"}
}

func (f *EventForm) Snapshot() EventFormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	opts := make([]domain.PlaceOption, len(f.options))
	copy(opts, f.options)
	return EventFormState{
		Name:        f.name,
		StartsAt:    f.startsAt,
		FinishesAt:  f.finishesAt,
		PlaceCode:   f.placeCode,
		Description: f.description,
		Options:     opts,
		Loading:     f.loading,
		LookupError: f.lookupErr,
	}
}

// onIntervalChanged runs with the lock held after every date edit.
func (f *EventForm) onIntervalChanged() {
	// Bump the generation so any pending timer or in-flight lookup is
	// superseded no matter what happens next.
	f.gen++
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}

	if f.startsAt == "" || f.finishesAt == "" {
		f.options = nil
		f.lookupErr = ""
		f.loading = false
		f.placeCode = ""
		return
	}

	gen := f.gen
	startsAt := datetime.ToBackend(f.startsAt)
	finishesAt := datetime.ToBackend(f.finishesAt)

	f.timer = time.AfterFunc(f.debounce, func() {
		f.runLookup(gen, startsAt, finishesAt)
	})
}

func (f *EventForm) runLookup(gen uint64, startsAt, finishesAt string) {
	f.mu.Lock()
	if gen != f.gen {
		f.mu.Unlock()
		return
	}
	f.loading = true
	f.lookupErr = ""
	f.mu.Unlock()

	places, err := f.lookup.Available(context.Background(), startsAt, finishesAt)

	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.gen {
		// Superseded while in flight; its result must never apply.
		return
	}
	f.loading = false
	f.applyLookup(places, err)
}

// applyLookup mutates option/selection state from a lookup result. Caller
// holds the lock.
func (f *EventForm) applyLookup(places []domain.Place, err error) {
	if err != nil {
		f.options = nil
		f.placeCode = ""
		f.lookupErr = err.Error()
		return
	}

	opts := make([]domain.PlaceOption, 0, len(places))
	keep := false
	for _, p := range places {
		opts = append(opts, domain.Option(p))
		if p.Code == f.placeCode {
			keep = true
		}
	}
	f.options = opts
	f.lookupErr = ""
	if !keep {
		f.placeCode = ""
	}
}

// ResolveNow runs the availability lookup synchronously, bypassing the
// debounce. The submit path uses it to enforce the selection invariant
// without waiting out a quiet period.
func (f *EventForm) ResolveNow(ctx context.Context) error {
	f.mu.Lock()
	if f.startsAt == "" || f.finishesAt == "" {
		f.mu.Unlock()
		return FieldError{Field: "startsAt", Message: msgMandatory}
	}
	f.gen++
	gen := f.gen
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	startsAt := datetime.ToBackend(f.startsAt)
	finishesAt := datetime.ToBackend(f.finishesAt)
	f.mu.Unlock()

	places, err := f.lookup.Available(ctx, startsAt, finishesAt)

	f.mu.Lock()
	defer f.mu.Unlock()
	if gen == f.gen {
		f.applyLookup(places, err)
	}
	return err
}

// Submit validates the draft and yields the wire payload: dates converted
// to backend form, blank description normalized to absent.
func (f *EventForm) Submit() (domain.EventUpsert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	errs := runSchema(f.validate, eventSchema{
		Name:       f.name,
		StartsAt:   f.startsAt,
		FinishesAt: f.finishesAt,
		PlaceCode:  f.placeCode,
	})
	if errs != nil {
		return domain.EventUpsert{}, errs
	}

	payload := domain.EventUpsert{
		Name:       f.name,
		StartsAt:   datetime.ToBackend(f.startsAt),
		FinishesAt: datetime.ToBackend(f.finishesAt),
		PlaceCode:  f.placeCode,
	}
	if desc := f.description; strings.TrimSpace(desc) != "" {
		payload.Description = &desc
	}
	return payload, nil
}
