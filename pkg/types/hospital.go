package types

// Coordinate is a geographic point in decimal degrees
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Hospital represents static hospital reference data. Never mutated; the
// Distance field is populated only during ranking and is not persisted.
type Hospital struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Address      string     `json:"address"`
	Coordinates  Coordinate `json:"coordinates"`
	Capabilities []string   `json:"capabilities"`
	Specialties  []string   `json:"specialties"`
	Occupancy    int        `json:"occupancy"` // percentage 0-100
	Distance     float64    `json:"distance,omitempty"`
}

// RankedHospital is a hospital annotated with its ranking outcome
type RankedHospital struct {
	Hospital
	Score       float64 `json:"score"`
	Recommended bool    `json:"recommended"`
}
