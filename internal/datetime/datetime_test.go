package datetime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToBackend(t *testing.T) {
	assert.Equal(t, "2026-02-05T10:30:00", ToBackend("2026-02-05T10:30"))
	assert.Equal(t, "2026-02-05T10:30:00", ToBackend("2026-02-05T10:30:00"))
	assert.Equal(t, "", ToBackend(""))
}

func TestToInput(t *testing.T) {
	assert.Equal(t, "2026-02-05T10:30", ToInput("2026-02-05T10:30:00"))
	assert.Equal(t, "2026-02-05T10:30", ToInput("2026-02-05T10:30"))
	assert.Equal(t, "", ToInput(""))
}

func TestRoundTrip(t *testing.T) {
	in := "2026-02-05T10:30"
	assert.Equal(t, in, ToInput(ToBackend(in)))
	// Idempotent on values already in backend form.
	assert.Equal(t, ToBackend(in), ToBackend(ToBackend(in)))
}
