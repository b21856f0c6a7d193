package providers

import (
	"fmt"
	"time"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

const (
	hourLayout = "2006-01-02T15:04"
	dateLayout = "2006-01-02"

	// unknownCode is a weather code outside the WMO table.
	unknownCode = -1
)

// defaults collects the fields that were missing upstream. Missing values become 0,
// and every replacement is reported so malformed data stays observable.
type defaults struct {
	warnings []string
}

func (d *defaults) scalar(field string, v *float64) float64 {
	if v == nil {
		d.warnings = append(d.warnings, fmt.Sprintf("%s missing; defaulted to 0", field))
		return 0
	}
	return *v
}

// series converts a nullable series that must have exactly want entries.
func (d *defaults) series(field string, want int, in []*float64) ([]float64, error) {
	if len(in) != want {
		return nil, fmt.Errorf("%w: %s has %d values, time has %d", weather.ErrMalformedResponse, field, len(in), want)
	}
	out := make([]float64, want)
	missing := 0
	for i, v := range in {
		if v == nil {
			missing++
			continue
		}
		out[i] = *v
	}
	if missing > 0 {
		d.warnings = append(d.warnings, fmt.Sprintf("%s: %d of %d values missing; defaulted to 0", field, missing, want))
	}
	return out, nil
}

func (d *defaults) codes(field string, want int, in []*int) ([]int, error) {
	if len(in) != want {
		return nil, fmt.Errorf("%w: %s has %d values, time has %d", weather.ErrMalformedResponse, field, len(in), want)
	}
	out := make([]int, want)
	missing := 0
	for i, v := range in {
		if v == nil {
			out[i] = unknownCode
			missing++
			continue
		}
		out[i] = *v
	}
	if missing > 0 {
		d.warnings = append(d.warnings, fmt.Sprintf("%s: %d of %d values missing; condition unknown", field, missing, want))
	}
	return out, nil
}

// checkTimes verifies every timestamp parses with layout and that the series is ordered.
func checkTimes(field, layout string, ts []string) error {
	if len(ts) == 0 {
		return fmt.Errorf("%w: %s is empty", weather.ErrMalformedResponse, field)
	}
	var prev time.Time
	for i, s := range ts {
		t, err := time.Parse(layout, s)
		if err != nil {
			return fmt.Errorf("%w: %s[%d] = %q: %v", weather.ErrMalformedResponse, field, i, s, err)
		}
		if i > 0 && !t.After(prev) {
			return fmt.Errorf("%w: %s is not strictly increasing at %d", weather.ErrMalformedResponse, field, i)
		}
		prev = t
	}
	return nil
}
