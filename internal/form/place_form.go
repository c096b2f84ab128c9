package form

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/eventmanager/admin-bff/internal/domain"
	"github.com/eventmanager/admin-bff/internal/viacep"
	"github.com/go-playground/validator/v10"
)

const placeDebounce = 400 * time.Millisecond

// AddressLookup resolves an 8-digit postal code to an address preview.
type AddressLookup interface {
	Lookup(ctx context.Context, cep string) (*domain.Address, error)
}

// PlaceForm requires a successful address resolution before the draft may
// be saved. The resolved preview is display/validation state only; it
// never appears in the submitted payload.
type PlaceForm struct {
	mu       sync.Mutex
	lookup   AddressLookup
	validate *validator.Validate
	debounce time.Duration

	name          string
	code          string
	capacityInput string
	cep           string
	numberInput   string
	complement    string
	reference     string

	address    *domain.Address
	addressErr string
	loading    bool

	gen   uint64
	timer *time.Timer
}

type PlaceFormState struct {
	Name         string
	Code         string
	Capacity     string
	CEP          string
	Number       string
	Complement   string
	Reference    string
	Address      *domain.Address
	AddressError string
	Loading      bool
}

type PlaceFormOption func(*PlaceForm)

func WithPlaceDebounce(d time.Duration) PlaceFormOption {
	return func(f *PlaceForm) { f.debounce = d }
}

func NewPlaceForm(lookup AddressLookup, opts ...PlaceFormOption) *PlaceForm {
	f := &PlaceForm{
		lookup:        lookup,
		validate:      newValidator(),
		debounce:      placeDebounce,
		capacityInput: "10",
		numberInput:   "0",
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Hydrate loads a fetched place into the draft for the edit flow. The CEP
// arrives unresolved; a lookup only runs once the field is edited or the
// submit path resolves it.
func (f *PlaceForm) Hydrate(p domain.PlaceUpsert) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.name = p.Name
	f.code = p.Code
	f.capacityInput = strconv.Itoa(p.Capacity)
	f.cep = p.CEP
	f.numberInput = strconv.Itoa(p.Number)
	if p.Complement != nil {
		f.complement = *p.Complement
	}
	if p.Reference != nil {
		f.reference = *p.Reference
	}
}

func (f *PlaceForm) SetName(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.name = v
}

func (f *PlaceForm) SetCode(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.code = v
}

func (f *PlaceForm) SetCapacity(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.capacityInput = v
}

func (f *PlaceForm) SetNumber(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.numberInput = v
}

func (f *PlaceForm) SetComplement(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.complement = v
}

func (f *PlaceForm) SetReference(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reference = v
}

// SetCEP records the new value and immediately drops any resolved preview
// or error: stale state must never show against a new code. A well-formed
// value schedules a debounced lookup; anything else leaves validity to
// the static schema.
func (f *PlaceForm) SetCEP(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.cep = v
	f.address = nil
	f.addressErr = ""
	f.gen++
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}

	if !viacep.Valid(v) {
		f.loading = false
		return
	}

	gen := f.gen
	cep := v
	f.timer = time.AfterFunc(f.debounce, func() {
		f.runLookup(gen, cep)
	})
}

func (f *PlaceForm) Snapshot() PlaceFormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	var addr *domain.Address
	if f.address != nil {
		a := *f.address
		addr = &a
	}
	return PlaceFormState{
		Name:         f.name,
		Code:         f.code,
		Capacity:     f.capacityInput,
		CEP:          f.cep,
		Number:       f.numberInput,
		Complement:   f.complement,
		Reference:    f.reference,
		Address:      addr,
		AddressError: f.addressErr,
		Loading:      f.loading,
	}
}

func (f *PlaceForm) runLookup(gen uint64, cep string) {
	f.mu.Lock()
	if gen != f.gen {
		f.mu.Unlock()
		return
	}
	f.loading = true
	f.addressErr = ""
	f.mu.Unlock()

	addr, err := f.lookup.Lookup(context.Background(), cep)

	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.gen {
		return
	}
	f.loading = false
	f.applyLookup(addr, err)
}

// applyLookup mutates preview state from a lookup result. Caller holds
// the lock.
func (f *PlaceForm) applyLookup(addr *domain.Address, err error) {
	if err != nil {
		f.address = nil
		if errors.Is(err, viacep.ErrNotFound) {
			f.addressErr = msgCEPNotFound
		} else {
			f.addressErr = msgCEPUnavailable
		}
		return
	}
	f.address = addr
	f.addressErr = ""
}

// ResolveNow resolves the current CEP synchronously, bypassing the
// debounce. The submit path uses it so a well-formed but not-yet-looked-up
// code can still pass the gate without a timer race.
func (f *PlaceForm) ResolveNow(ctx context.Context) error {
	f.mu.Lock()
	cep := f.cep
	if !viacep.Valid(cep) {
		f.mu.Unlock()
		return FieldError{Field: "cep", Message: msgCEPFormat}
	}
	if f.address != nil {
		f.mu.Unlock()
		return nil
	}
	f.gen++
	gen := f.gen
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	f.mu.Unlock()

	addr, err := f.lookup.Lookup(ctx, cep)

	f.mu.Lock()
	defer f.mu.Unlock()
	if gen == f.gen {
		f.loading = false
		f.applyLookup(addr, err)
	}
	return err
}

// Submit validates the draft and enforces the resolution gate: with a
// well-formed CEP, an in-flight lookup, a lookup error or a missing
// preview each block submission locally. Accepted drafts have blank
// optionals normalized to absent.
func (f *PlaceForm) Submit() (domain.PlaceUpsert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	capacity, capErr := strconv.Atoi(strings.TrimSpace(f.capacityInput))
	number, numErr := strconv.Atoi(strings.TrimSpace(f.numberInput))

	errs := runSchema(f.validate, placeSchema{
		Name:     f.name,
		Code:     f.code,
		Capacity: capacity,
		CEP:      f.cep,
		Number:   number,
	})
	if capErr != nil && errs.Of("capacity") == "" {
		errs = append(errs, FieldError{Field: "capacity", Message: msgMinCapacity})
	}
	if numErr != nil && errs.Of("number") == "" {
		errs = append(errs, FieldError{Field: "number", Message: msgInvalidNumber})
	}
	if errs != nil {
		return domain.PlaceUpsert{}, errs
	}

	// The schema passed, so the CEP is well-formed; now the lookup state
	// decides.
	switch {
	case f.loading:
		return domain.PlaceUpsert{}, FieldErrors{{Field: "cep", Message: msgCEPUnresolved}}
	case f.addressErr != "":
		return domain.PlaceUpsert{}, FieldErrors{{Field: "cep", Message: f.addressErr}}
	case f.address == nil:
		return domain.PlaceUpsert{}, FieldErrors{{Field: "cep", Message: msgCEPUnresolved}}
	}

	payload := domain.PlaceUpsert{
		Name:     f.name,
		Code:     f.code,
		Capacity: capacity,
		CEP:      f.cep,
		Number:   number,
	}
	if c := f.complement; strings.TrimSpace(c) != "" {
		payload.Complement = &c
	}
	if r := f.reference; strings.TrimSpace(r) != "" {
		payload.Reference = &r
	}
	return payload, nil
}
