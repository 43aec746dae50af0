package game

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Kickoff is a normalized time-of-day. The scraper reports kickoff times in
// its own zone; the configured offset is applied exactly once, here, at
// ingestion. Every later consumer (identity, alert windows, persistence)
// sees the corrected value.
type Kickoff struct {
	hour   int
	minute int
}

func NewKickoff(hour, minute int) (Kickoff, error) {
	if hour < 0 || hour > 23 {
		return Kickoff{}, fmt.Errorf("kickoff hour %d out of range", hour)
	}
	if minute < 0 || minute > 59 {
		return Kickoff{}, fmt.Errorf("kickoff minute %d out of range", minute)
	}
	return Kickoff{hour: hour, minute: minute}, nil
}

// ParseKickoff parses "HH:MM" or "HH:MM:SS" and applies the offset,
// wrapping around midnight.
func ParseKickoff(raw string, offset time.Duration) (Kickoff, error) {
	raw = strings.TrimSpace(raw)
	parts := strings.Split(raw, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return Kickoff{}, fmt.Errorf("invalid kickoff time %q", raw)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return Kickoff{}, fmt.Errorf("invalid kickoff hour in %q", raw)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return Kickoff{}, fmt.Errorf("invalid kickoff minute in %q", raw)
	}

	k, err := NewKickoff(hour, minute)
	if err != nil {
		return Kickoff{}, err
	}
	return k.shift(offset), nil
}

func (k Kickoff) shift(offset time.Duration) Kickoff {
	total := k.hour*60 + k.minute + int(offset.Minutes())
	const day = 24 * 60
	total %= day
	if total < 0 {
		total += day
	}
	return Kickoff{hour: total / 60, minute: total % 60}
}

func (k Kickoff) Hour() int   { return k.hour }
func (k Kickoff) Minute() int { return k.minute }

func (k Kickoff) String() string {
	return fmt.Sprintf("%02d:%02d", k.hour, k.minute)
}

// OnDay anchors the kickoff on the calendar day of ref, in ref's location.
func (k Kickoff) OnDay(ref time.Time) time.Time {
	return time.Date(ref.Year(), ref.Month(), ref.Day(), k.hour, k.minute, 0, 0, ref.Location())
}

// MarshalJSON encodes the kickoff as its "HH:MM" form so snapshot files
// stay readable and stable across field changes.
func (k Kickoff) MarshalJSON() ([]byte, error) {
	return []byte(`"` + k.String() + `"`), nil
}

func (k *Kickoff) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "" || raw == "null" {
		*k = Kickoff{}
		return nil
	}
	parsed, err := ParseKickoff(raw, 0)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
