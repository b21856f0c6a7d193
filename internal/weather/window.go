package weather

// DefaultHorizonHours is the forecast horizon used when no model configuration
// says otherwise.
const DefaultHorizonHours = 24

// InputWindowBounds returns the half-open range [start, end) of the inputHours
// consecutive hours ending at idxNow inclusive, in a series of n hours.
// The window is truncated on the left when there is not enough history.
func InputWindowBounds(n, idxNow, inputHours int) (start, end int) {
	start = max(0, idxNow-(inputHours-1))
	end = min(n, idxNow+1)
	if end < start {
		end = start
	}
	return start, end
}

// HorizonBounds returns the half-open range [start, end) of the horizon
// consecutive hours starting at idxNow, truncated at the end of the series.
func HorizonBounds(n, idxNow, horizon int) (start, end int) {
	start = min(idxNow, n)
	end = min(n, idxNow+horizon)
	if end < start {
		end = start
	}
	return start, end
}
