package domain

// LocationData is a named point on the Earth's surface, derived transiently
// from a geocoding lookup. It is never persisted.
type LocationData struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Title     string  `json:"title"`
}

// Valid reports whether the coordinates lie within valid ranges.
func (l LocationData) Valid() bool {
	return l.Latitude >= -90 && l.Latitude <= 90 &&
		l.Longitude >= -180 && l.Longitude <= 180
}
