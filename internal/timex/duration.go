// Package timex holds the JSON duration type used by the config loaders for
// token lifetimes and request timeouts.
package timex

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrNegativeDuration is returned for lifetimes and timeouts below zero.
var ErrNegativeDuration = errors.New("duration must not be negative")

// Duration is a time.Duration that JSON carries either as a
// time.ParseDuration string ("30s", "1m30s") or as a whole number of seconds.
type Duration struct {
	time.Duration
}

// MarshalJSON encodes the duration in its string form.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	var parsed time.Duration
	switch value := v.(type) {
	case float64:
		parsed = time.Duration(value * float64(time.Second))
	case string:
		p, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value, err)
		}
		parsed = p
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}

	if parsed < 0 {
		return fmt.Errorf("%w: %s", ErrNegativeDuration, parsed)
	}
	d.Duration = parsed
	return nil
}
