package domain

// Coordinate is the value expected by the [Near] operator. Radius is the
// maximum distance, in meters, from the point.
type Coordinate struct {
	Latitude  float64
	Longitude float64
	Radius    float64
}
