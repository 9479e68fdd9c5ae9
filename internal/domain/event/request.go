package event

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// CreateEventRequest keeps every field optional at the decoding layer so the
// handler can report all missing fields in a single message. MaxCapacity is
// raw JSON because clients send both `50` and `"50"`, and a malformed value
// must surface as a format error, not a decode failure.
type CreateEventRequest struct {
	Name        *string         `json:"name"`
	Location    *string         `json:"location"`
	StartTime   *string         `json:"start_time"`
	EndTime     *string         `json:"end_time"`
	MaxCapacity json.RawMessage `json:"max_capacity"`
}

// Params is a fully validated create request.
type Params struct {
	Name        string
	Location    string
	StartTime   time.Time
	EndTime     time.Time
	MaxCapacity int
}

// requiredFields is the canonical order missing fields are reported in.
var requiredFields = []string{"name", "location", "start_time", "end_time", "max_capacity"}

func (r CreateEventRequest) MissingFields() []string {
	present := map[string]bool{
		"name":         r.Name != nil && strings.TrimSpace(*r.Name) != "",
		"location":     r.Location != nil && strings.TrimSpace(*r.Location) != "",
		"start_time":   r.StartTime != nil && strings.TrimSpace(*r.StartTime) != "",
		"end_time":     r.EndTime != nil && strings.TrimSpace(*r.EndTime) != "",
		"max_capacity": rawPresent(r.MaxCapacity),
	}

	var missing []string

	for _, f := range requiredFields {
		if !present[f] {
			missing = append(missing, f)
		}
	}

	return missing
}

// Parse validates field formats and ranges. MissingFields must be checked
// first; Parse assumes every field is present.
func (r CreateEventRequest) Parse(loc *time.Location) (Params, error) {
	start, err := parseTime(*r.StartTime, loc)

	if err != nil {
		return Params{}, ErrInvalidFormat
	}

	end, err := parseTime(*r.EndTime, loc)

	if err != nil {
		return Params{}, ErrInvalidFormat
	}

	capacity, err := parseCapacity(r.MaxCapacity)

	if err != nil {
		return Params{}, ErrInvalidFormat
	}

	if !start.Before(end) {
		return Params{}, ErrStartNotBeforeEnd
	}

	if capacity <= 0 {
		return Params{}, ErrNonPositiveCapacity
	}

	return Params{
		Name:        strings.TrimSpace(*r.Name),
		Location:    strings.TrimSpace(*r.Location),
		StartTime:   start,
		EndTime:     end,
		MaxCapacity: capacity,
	}, nil
}

func rawPresent(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s != "" && s != "null" && s != `""`
}

// parseCapacity accepts a JSON number or a numeric string.
func parseCapacity(raw json.RawMessage) (int, error) {
	s := strings.TrimSpace(string(raw))
	s = strings.Trim(s, `"`)

	return strconv.Atoi(s)
}

// naive layouts are interpreted in the server's configured zone, zoned ones
// keep their offset; everything is stored as UTC
var naiveLayouts = []string{"2006-01-02T15:04:05", "2006-01-02 15:04:05"}

func parseTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)

	t, err := time.Parse(time.RFC3339, s)

	if err == nil {
		return t.UTC(), nil
	}

	for _, layout := range naiveLayouts {
		t, err = time.ParseInLocation(layout, s, loc)

		if err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, err
}
