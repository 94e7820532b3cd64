// Package geo provides the distance and bearing math shared by the landing
// zone selector and the medic matcher.
//
// Two distance formulas coexist on purpose: the landing zone selector uses
// the true great-circle distance (HaversineKm) while the medic matcher uses
// a cheap planar approximation (PlanarKm). They produce different numbers
// and must not be unified; the matcher's score weights were tuned against
// the planar form.
package geo

import "math"

// EarthRadiusKm is Earth's mean radius.
const EarthRadiusKm = 6371.0

// kmPerDegree is the rough length of one degree of arc at the surface.
const kmPerDegree = 111.0

// Cruise speeds used for arrival estimates.
const (
	AerialSpeedKmh = 120.0
	GroundSpeedKmh = 40.0
)

// HaversineKm returns the great-circle distance in kilometers between two
// points given in degrees.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// PlanarKm returns the planar degree-delta approximation of the distance in
// kilometers between two points given in degrees. Adequate for the short
// intra-city ranges the medic matcher scores over.
func PlanarKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := math.Abs(lat2 - lat1)
	dLon := math.Abs(lon2 - lon1)
	return math.Sqrt(dLat*dLat+dLon*dLon) * kmPerDegree
}

// BearingDegrees returns the initial compass bearing from point 1 to point 2,
// in degrees normalized to [0, 360), where 0 is north and 90 is east.
func BearingDegrees(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	x := math.Sin(dLon) * math.Cos(lat2Rad)
	y := math.Cos(lat1Rad)*math.Sin(lat2Rad) -
		math.Sin(lat1Rad)*math.Cos(lat2Rad)*math.Cos(dLon)

	bearing := math.Atan2(x, y) * 180 / math.Pi
	return math.Mod(bearing+360, 360)
}

// cardinals in 45-degree sectors, clockwise from north.
var cardinals = [8]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// BearingCardinal converts a bearing in degrees to its cardinal direction.
func BearingCardinal(bearing float64) string {
	idx := int(math.Round(bearing/45)) % 8
	if idx < 0 {
		idx += 8
	}
	return cardinals[idx]
}

// TravelMinutes returns the travel time in minutes for a distance at the
// given speed. Non-positive inputs yield 0.
func TravelMinutes(distanceKm, speedKmh float64) float64 {
	if distanceKm <= 0 || speedKmh <= 0 {
		return 0
	}
	return distanceKm / speedKmh * 60
}
