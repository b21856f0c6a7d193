package chart

import (
	"math"
	"slices"
	"strconv"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

const (
	maxTicks = 6
	minTicks = 4
)

// AxisTicks returns round-number tick values spanning series, highest first.
// It never returns more than six ticks; a non-flat series always gets at least two.
func AxisTicks(series []float64) []int {
	if len(series) == 0 {
		return nil
	}

	lo, hi := slices.Min(series), slices.Max(series)
	span := hi - lo
	if span == 0 {
		span = 1
	}

	step := niceStep(span / 4)
	start := math.Floor(lo/step) * step
	end := math.Ceil(hi/step) * step
	count := int(math.Round((end - start) / step))

	ticks := make([]int, 0, count+1)
	for k := 0; k <= count; k++ {
		ticks = appendUnique(ticks, round(start+float64(k)*step))
	}

	if len(ticks) > maxTicks {
		kept := ticks[:0]
		for i := 0; i < len(ticks); i += 2 {
			kept = append(kept, ticks[i])
		}
		ticks = kept
	}

	// Integer rounding can fold a narrow range onto one tick.
	if len(ticks) < 2 && hi > lo {
		ticks = appendUnique(ticks, int(math.Floor(lo)))
		ticks = appendUnique(ticks, int(math.Ceil(hi)))
		slices.Sort(ticks)
	}

	if len(ticks) >= 2 && len(ticks) < minTicks {
		mid := round(float64(ticks[0]+ticks[len(ticks)-1]) / 2)
		if !slices.Contains(ticks, mid) {
			ticks = append(ticks, mid)
			slices.Sort(ticks)
		}
	}

	slices.Reverse(ticks)
	return ticks
}

// TickLabels formats ticks with the glyph of tab.
func TickLabels(ticks []int, tab Tab) []string {
	glyph := unitGlyph(tab)
	out := make([]string, len(ticks))
	for i, t := range ticks {
		out[i] = strconv.Itoa(t) + glyph
	}
	return out
}

func unitGlyph(tab Tab) string {
	switch tab {
	case TabTemperature:
		return "°"
	case TabPrecipitation:
		return "%"
	default:
		return ""
	}
}

// niceStep snaps rough to 1, 2, 5 or 10 times a power of ten.
func niceStep(rough float64) float64 {
	pow10 := math.Pow(10, math.Floor(math.Log10(rough)))
	n := rough / pow10

	var snapped float64
	switch {
	case n < 1.5:
		snapped = 1
	case n < 3:
		snapped = 2
	case n < 7:
		snapped = 5
	default:
		snapped = 10
	}
	return snapped * pow10
}

func round(v float64) int {
	return int(weather.RoundHalfUp(v))
}

func appendUnique(ticks []int, v int) []int {
	if slices.Contains(ticks, v) {
		return ticks
	}
	return append(ticks, v)
}
