package form

import (
	"strings"

	"github.com/eventmanager/admin-bff/internal/viacep"
	"github.com/go-playground/validator/v10"
)

// FieldError is a client-side validation failure tied to one field. These
// block submission and never reach the network.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// FieldErrors aggregates per-field failures from one validation pass.
type FieldErrors []FieldError

func (es FieldErrors) Error() string {
	msgs := make([]string, len(es))
	for i, e := range es {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Of returns the message for a field, or "".
func (es FieldErrors) Of(field string) string {
	for _, e := range es {
		if e.Field == field {
			return e.Message
		}
	}
	return ""
}

const (
	msgMandatory     = "This field is mandatory"
	msgAlphanumeric  = "Only numbers and letters is permitted"
	msgMinCapacity   = "The minimum capacity is 10"
	msgCEPFormat     = "The CEP must contain 8 numbers"
	msgInvalidNumber = "Invalid number"

	// Messages owned by the dependent lookups, not the static schema.
	msgCEPNotFound    = "CEP not found"
	msgCEPUnavailable = "Unable to validate CEP"
	msgCEPUnresolved  = "CEP not validated yet"
)

type eventSchema struct {
	Name       string `validate:"required,max=255"`
	StartsAt   string `validate:"required"`
	FinishesAt string `validate:"required"`
	PlaceCode  string `validate:"required"`
}

type placeSchema struct {
	Name     string `validate:"required,max=255"`
	Code     string `validate:"required,max=255,alphanum"`
	Capacity int    `validate:"min=10"`
	CEP      string `validate:"cep"`
	Number   int    `validate:"min=0"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("cep", func(fl validator.FieldLevel) bool {
		return viacep.Valid(fl.Field().String())
	})
	return v
}

// message translates a failed rule into the exact message the forms show.
func message(fe validator.FieldError) string {
	switch fe.StructField() {
	case "Capacity":
		return msgMinCapacity
	case "CEP":
		return msgCEPFormat
	case "Number":
		return msgInvalidNumber
	}
	switch fe.Tag() {
	case "alphanum":
		return msgAlphanumeric
	default:
		return msgMandatory
	}
}

// fieldName lowercases the struct field the way the wire payload spells it.
func fieldName(fe validator.FieldError) string {
	f := fe.StructField()
	switch f {
	case "CEP":
		return "cep"
	case "PlaceCode":
		return "placeCode"
	case "StartsAt":
		return "startsAt"
	case "FinishesAt":
		return "finishesAt"
	}
	return strings.ToLower(f[:1]) + f[1:]
}

func runSchema(v *validator.Validate, s any) FieldErrors {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var out FieldErrors
	for _, fe := range err.(validator.ValidationErrors) {
		out = append(out, FieldError{Field: fieldName(fe), Message: message(fe)})
	}
	return out
}
