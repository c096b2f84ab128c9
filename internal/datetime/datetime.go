// Package datetime converts between the 16-character datetime-local form
// values and the seconds-suffixed local date-times the backend expects.
package datetime

// ToBackend converts "2026-02-05T10:30" to "2026-02-05T10:30:00".
// Values already carrying seconds pass through unchanged.
func ToBackend(local string) string {
	if local == "" {
		return ""
	}
	if len(local) == 16 {
		return local + ":00"
	}
	return local
}

// ToInput converts "2026-02-05T10:30:00" to "2026-02-05T10:30".
func ToInput(apiValue string) string {
	if apiValue == "" {
		return ""
	}
	if len(apiValue) >= 16 {
		return apiValue[:16]
	}
	return apiValue
}
