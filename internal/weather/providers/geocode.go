package providers

import (
	"fmt"
	"sync"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// geocoder keeps its API key in a package variable.
var geocoderMu sync.Mutex

// lookupFunc resolves an address to coordinates; tests swap it out.
type lookupFunc func(addr geocoder.Address) (geocoder.Location, error)

// Geocoder fills in coordinates for locations configured by name only.
type Geocoder struct {
	apiKey string
	lookup lookupFunc
}

// NewGeocoder returns a Geocoder backed by the Google Geocoding API.
func NewGeocoder(apiKey string) *Geocoder {
	return &Geocoder{apiKey: apiKey, lookup: geocoder.Geocoding}
}

// Resolve returns loc with coordinates. Locations that already carry
// coordinates are returned unchanged without any network call.
func (g *Geocoder) Resolve(loc weather.Location) (weather.Location, error) {
	if loc.HasCoordinates() {
		return loc, nil
	}
	if g.apiKey == "" {
		return loc, fmt.Errorf("location %q has no coordinates and no geocoder api key is configured", loc.Name)
	}

	geocoderMu.Lock()
	geocoder.ApiKey = g.apiKey
	res, err := g.lookup(geocoder.Address{City: loc.Name, Country: loc.Country})
	geocoderMu.Unlock()
	if err != nil {
		return loc, fmt.Errorf("geocode %q: %w", loc.Name, err)
	}

	loc.Lat = res.Latitude
	loc.Lon = res.Longitude
	return loc, nil
}

// ResolveAll resolves every location, failing on the first error.
func (g *Geocoder) ResolveAll(locs []weather.Location) ([]weather.Location, error) {
	out := make([]weather.Location, 0, len(locs))
	for _, loc := range locs {
		r, err := g.Resolve(loc)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
