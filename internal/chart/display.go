package chart

import "fmt"

// Unit is the temperature display unit.
type Unit string

const (
	Celsius    Unit = "C"
	Fahrenheit Unit = "F"
)

// Tab is the metric shown in the chart.
type Tab string

const (
	TabTemperature   Tab = "temp"
	TabPrecipitation Tab = "precip"
	TabWind          Tab = "wind"
)

// DisplayState is the user's view selection. It is a value: actions return a new one.
type DisplayState struct {
	Unit Unit `json:"unit"`
	Tab  Tab  `json:"tab"`
}

// DefaultDisplayState is Celsius on the temperature tab.
func DefaultDisplayState() DisplayState {
	return DisplayState{Unit: Celsius, Tab: TabTemperature}
}

// WithUnit returns the state after a unit toggle.
func (s DisplayState) WithUnit(u Unit) DisplayState {
	s.Unit = u
	return s
}

// WithTab returns the state after a tab switch.
func (s DisplayState) WithTab(t Tab) DisplayState {
	s.Tab = t
	return s
}

// ParseUnit accepts "C" or "F"; empty selects Celsius.
func ParseUnit(s string) (Unit, error) {
	switch Unit(s) {
	case "", Celsius:
		return Celsius, nil
	case Fahrenheit:
		return Fahrenheit, nil
	default:
		return "", fmt.Errorf("unknown unit %q", s)
	}
}

// ParseTab accepts "temp", "precip" or "wind"; empty selects temperature.
func ParseTab(s string) (Tab, error) {
	switch Tab(s) {
	case "", TabTemperature:
		return TabTemperature, nil
	case TabPrecipitation, TabWind:
		return Tab(s), nil
	default:
		return "", fmt.Errorf("unknown tab %q", s)
	}
}
