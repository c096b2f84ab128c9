package form

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/eventmanager/admin-bff/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testDebounce = 20 * time.Millisecond
	waitFor      = 2 * time.Second
	tick         = 5 * time.Millisecond
)

type availCall struct {
	startsAt   string
	finishesAt string
}

type fakeAvailability struct {
	mu      sync.Mutex
	calls   []availCall
	respond func(startsAt, finishesAt string) ([]domain.Place, error)
}

func (f *fakeAvailability) Available(_ context.Context, startsAt, finishesAt string) ([]domain.Place, error) {
	f.mu.Lock()
	f.calls = append(f.calls, availCall{startsAt, finishesAt})
	respond := f.respond
	f.mu.Unlock()
	if respond != nil {
		return respond(startsAt, finishesAt)
	}
	return nil, nil
}

func (f *fakeAvailability) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeAvailability) lastCall() availCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func place(name, code string) domain.Place {
	return domain.Place{Name: name, Code: code, Capacity: 100, CEP: "01001000"}
}

func TestEventForm_NoLookupUntilBothDates(t *testing.T) {
	lookup := &fakeAvailability{}
	f := NewEventForm(lookup, WithEventDebounce(testDebounce))

	f.SetStartsAt("2026-02-05T10:30")
	time.Sleep(4 * testDebounce)

	assert.Zero(t, lookup.callCount())
	s := f.Snapshot()
	assert.Empty(t, s.Options)
	assert.False(t, s.Loading)
	assert.Equal(t, "Fill dates to load available places", s.Placeholder())
}

func TestEventForm_RapidEditsFireOneLookup(t *testing.T) {
	lookup := &fakeAvailability{}
	f := NewEventForm(lookup, WithEventDebounce(50*time.Millisecond))

	f.SetStartsAt("2026-02-05T10:30")
	f.SetFinishesAt("2026-02-05T11:00")
	f.SetFinishesAt("2026-02-05T11:30")
	f.SetFinishesAt("2026-02-05T12:00")

	assert.Eventually(t, func() bool { return lookup.callCount() == 1 }, waitFor, tick)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, lookup.callCount(), "edits inside the quiet period must collapse into one lookup")

	call := lookup.lastCall()
	assert.Equal(t, "2026-02-05T10:30:00", call.startsAt)
	assert.Equal(t, "2026-02-05T12:00:00", call.finishesAt)
}

func TestEventForm_SelectionFollowsResultSet(t *testing.T) {
	lookup := &fakeAvailability{
		respond: func(_, finishesAt string) ([]domain.Place, error) {
			if finishesAt == "2026-02-05T12:00:00" {
				return []domain.Place{place("Hall A", "HALLA"), place("Hall B", "HALLB")}, nil
			}
			return []domain.Place{place("Hall B", "HALLB")}, nil
		},
	}
	f := NewEventForm(lookup, WithEventDebounce(testDebounce))

	f.SetStartsAt("2026-02-05T10:30")
	f.SetFinishesAt("2026-02-05T12:00")
	assert.Eventually(t, func() bool { return len(f.Snapshot().Options) == 2 }, waitFor, tick)

	require.NoError(t, f.SelectPlace("HALLA"))

	// Shrinking the interval drops HALLA from the result set.
	f.SetFinishesAt("2026-02-05T11:00")
	assert.Eventually(t, func() bool { return len(f.Snapshot().Options) == 1 }, waitFor, tick)
	assert.Empty(t, f.Snapshot().PlaceCode, "selection absent from the new set must be cleared")

	// A selection still present survives the refresh.
	require.NoError(t, f.SelectPlace("HALLB"))
	f.SetFinishesAt("2026-02-05T12:00")
	assert.Eventually(t, func() bool { return len(f.Snapshot().Options) == 2 }, waitFor, tick)
	assert.Equal(t, "HALLB", f.Snapshot().PlaceCode)
}

func TestEventForm_EmptyResultClearsSelection(t *testing.T) {
	lookup := &fakeAvailability{
		respond: func(_, finishesAt string) ([]domain.Place, error) {
			if finishesAt == "2026-02-05T11:00:00" {
				return nil, nil
			}
			return []domain.Place{place("Hall A", "HALLA")}, nil
		},
	}
	f := NewEventForm(lookup, WithEventDebounce(testDebounce))

	f.SetStartsAt("2026-02-05T10:30")
	f.SetFinishesAt("2026-02-05T12:00")
	assert.Eventually(t, func() bool { return len(f.Snapshot().Options) == 1 }, waitFor, tick)
	require.NoError(t, f.SelectPlace("HALLA"))

	f.SetFinishesAt("2026-02-05T11:00")
	assert.Eventually(t, func() bool { return len(f.Snapshot().Options) == 0 && !f.Snapshot().Loading }, waitFor, tick)

	s := f.Snapshot()
	assert.Empty(t, s.PlaceCode)
	assert.Equal(t, "No available places", s.Placeholder())
}

func TestEventForm_PartialIntervalClearsEverything(t *testing.T) {
	lookup := &fakeAvailability{
		respond: func(_, _ string) ([]domain.Place, error) {
			return []domain.Place{place("Hall A", "HALLA")}, nil
		},
	}
	f := NewEventForm(lookup, WithEventDebounce(testDebounce))

	f.SetStartsAt("2026-02-05T10:30")
	f.SetFinishesAt("2026-02-05T12:00")
	assert.Eventually(t, func() bool { return len(f.Snapshot().Options) == 1 }, waitFor, tick)
	require.NoError(t, f.SelectPlace("HALLA"))

	calls := lookup.callCount()
	f.SetFinishesAt("")
	time.Sleep(4 * testDebounce)

	s := f.Snapshot()
	assert.Empty(t, s.Options)
	assert.Empty(t, s.PlaceCode, "a partial interval can never justify a prior selection")
	assert.Empty(t, s.LookupError)
	assert.Equal(t, calls, lookup.callCount())
}

func TestEventForm_LookupFailure(t *testing.T) {
	lookup := &fakeAvailability{
		respond: func(_, _ string) ([]domain.Place, error) {
			return nil, errors.New("availability lookup failed")
		},
	}
	f := NewEventForm(lookup, WithEventDebounce(testDebounce))

	f.SetStartsAt("2026-02-05T10:30")
	f.SetFinishesAt("2026-02-05T12:00")

	assert.Eventually(t, func() bool { return f.Snapshot().LookupError != "" }, waitFor, tick)
	s := f.Snapshot()
	assert.Empty(t, s.Options)
	assert.Empty(t, s.PlaceCode)
	assert.Equal(t, "availability lookup failed", s.LookupError)
}

func TestEventForm_SupersededLookupNeverApplies(t *testing.T) {
	release := make(chan struct{})
	lookup := &fakeAvailability{
		respond: func(_, finishesAt string) ([]domain.Place, error) {
			if finishesAt == "2026-02-05T11:00:00" {
				// First lookup stalls until after its successor resolves.
				<-release
				return []domain.Place{place("Stale Hall", "STALE")}, nil
			}
			return []domain.Place{place("Hall B", "HALLB")}, nil
		},
	}
	f := NewEventForm(lookup, WithEventDebounce(testDebounce))

	f.SetStartsAt("2026-02-05T10:30")
	f.SetFinishesAt("2026-02-05T11:00")
	assert.Eventually(t, func() bool { return lookup.callCount() == 1 }, waitFor, tick)

	// Supersede while the first request is in flight.
	f.SetFinishesAt("2026-02-05T12:00")
	assert.Eventually(t, func() bool { return len(f.Snapshot().Options) == 1 }, waitFor, tick)
	assert.Equal(t, "HALLB", f.Snapshot().Options[0].Value)

	close(release)
	time.Sleep(4 * testDebounce)
	assert.Equal(t, "HALLB", f.Snapshot().Options[0].Value, "stale result must never overwrite the latest one")
}

func TestEventForm_SelectPlaceRejectsUnknownCode(t *testing.T) {
	f := NewEventForm(&fakeAvailability{}, WithEventDebounce(testDebounce))
	err := f.SelectPlace("GHOST")
	var fe FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "placeCode", fe.Field)
}

func TestEventForm_SubmitValidation(t *testing.T) {
	f := NewEventForm(&fakeAvailability{}, WithEventDebounce(testDebounce))
	f.SetName("Launch party")

	_, err := f.Submit()
	var errs FieldErrors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, "This field is mandatory", errs.Of("startsAt"))
	assert.Equal(t, "This field is mandatory", errs.Of("finishesAt"))
	assert.Equal(t, "This field is mandatory", errs.Of("placeCode"))
}

func TestEventForm_SubmitPayload(t *testing.T) {
	lookup := &fakeAvailability{
		respond: func(_, _ string) ([]domain.Place, error) {
			return []domain.Place{place("Hall A", "HALLA")}, nil
		},
	}
	f := NewEventForm(lookup, WithEventDebounce(testDebounce))
	f.SetName("Launch party")
	f.SetStartsAt("2026-02-05T10:30")
	f.SetFinishesAt("2026-02-05T12:00")
	assert.Eventually(t, func() bool { return len(f.Snapshot().Options) == 1 }, waitFor, tick)
	require.NoError(t, f.SelectPlace("HALLA"))
	f.SetDescription("   ")

	payload, err := f.Submit()
	require.NoError(t, err)
	assert.Equal(t, "2026-02-05T10:30:00", payload.StartsAt)
	assert.Equal(t, "2026-02-05T12:00:00", payload.FinishesAt)
	assert.Equal(t, "HALLA", payload.PlaceCode)
	assert.Nil(t, payload.Description, "blank description is normalized to absent")

	f.SetDescription("doors open 10:00")
	payload, err = f.Submit()
	require.NoError(t, err)
	require.NotNil(t, payload.Description)
	assert.Equal(t, "doors open 10:00", *payload.Description)
}

func TestEventForm_HydrateConvertsWireDates(t *testing.T) {
	f := NewEventForm(&fakeAvailability{}, WithEventDebounce(testDebounce))
	f.Hydrate(domain.EventUpsert{
		Name:       "Launch party",
		StartsAt:   "2026-02-05T10:30:00",
		FinishesAt: "2026-02-05T12:00:00",
		PlaceCode:  "HALLA",
	})

	s := f.Snapshot()
	assert.Equal(t, "2026-02-05T10:30", s.StartsAt)
	assert.Equal(t, "2026-02-05T12:00", s.FinishesAt)
	assert.Equal(t, "HALLA", s.PlaceCode)
}

func TestEventForm_ResolveNow(t *testing.T) {
	lookup := &fakeAvailability{
		respond: func(_, _ string) ([]domain.Place, error) {
			return []domain.Place{place("Hall A", "HALLA")}, nil
		},
	}
	f := NewEventForm(lookup, WithEventDebounce(time.Hour))
	f.Hydrate(domain.EventUpsert{
		Name:       "Launch party",
		StartsAt:   "2026-02-05T10:30:00",
		FinishesAt: "2026-02-05T12:00:00",
		PlaceCode:  "HALLA",
	})

	require.NoError(t, f.ResolveNow(context.Background()))
	assert.Equal(t, 1, lookup.callCount())
	assert.Equal(t, "HALLA", f.Snapshot().PlaceCode, "hydrated selection present in the set survives")

	_, err := f.Submit()
	require.NoError(t, err)
}
