package domain

// Place as listed by the backend.
type Place struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Code     string `json:"code"`
	Capacity int    `json:"capacity"`
	CEP      string `json:"cep"`
}

type PlaceDetails struct {
	Name       string  `json:"name"`
	Code       string  `json:"code"`
	CEP        string  `json:"cep"`
	Capacity   int     `json:"capacity"`
	Number     int     `json:"number"`
	Complement *string `json:"complement,omitempty"`
	Reference  *string `json:"reference,omitempty"`
}

// PlaceOption is the {label, value} projection offered by the availability
// lookup: display name plus the natural code events reference.
type PlaceOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Option projects a place into a selectable dropdown entry.
func Option(p Place) PlaceOption {
	return PlaceOption{Label: p.Name, Value: p.Code}
}

// Address is the ephemeral preview resolved from a CEP. It is shown for
// validation only and never submitted.
type Address struct {
	Street       string `json:"street"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
}

type Event struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	StartsAt    string       `json:"startsAt"`
	FinishesAt  string       `json:"finishesAt"`
	Description *string      `json:"description,omitempty"`
	Place       PlaceDetails `json:"place"`
}

type EventDetails struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	StartsAt    string       `json:"startsAt"`
	FinishesAt  string       `json:"finishesAt"`
	Description *string      `json:"description,omitempty"`
	CreatedAt   string       `json:"createdAt"`
	UpdatedAt   string       `json:"updatedAt"`
	Place       PlaceDetails `json:"place"`
	Address     *Address     `json:"address,omitempty"`
}

// EventUpsert is the create/update payload. Dates are in backend wire
// format (seconds suffixed); a blank description is normalized to absent.
type EventUpsert struct {
	Name        string  `json:"name"`
	StartsAt    string  `json:"startsAt"`
	FinishesAt  string  `json:"finishesAt"`
	PlaceCode   string  `json:"placeCode"`
	Description *string `json:"description,omitempty"`
}

type PlaceUpsert struct {
	Name       string  `json:"name"`
	Code       string  `json:"code"`
	Capacity   int     `json:"capacity"`
	CEP        string  `json:"cep"`
	Number     int     `json:"number"`
	Complement *string `json:"complement,omitempty"`
	Reference  *string `json:"reference,omitempty"`
}
