package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineKm(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64
		tolerance              float64
	}{
		{
			name: "al ghadir park to patient",
			lat1: 24.7703, lon1: 46.6529,
			lat2: 24.7745, lon2: 46.6575,
			want: 0.66, tolerance: 0.05,
		},
		{
			name: "same point",
			lat1: 24.7745, lon1: 46.6575,
			lat2: 24.7745, lon2: 46.6575,
			want: 0, tolerance: 1e-9,
		},
		{
			name: "one degree of latitude",
			lat1: 0, lon1: 0,
			lat2: 1, lon2: 0,
			want: 111.19, tolerance: 0.1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HaversineKm(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			assert.InDelta(t, tt.want, got, tt.tolerance)
		})
	}
}

func TestPlanarKm(t *testing.T) {
	// 0.1 degree in each axis: sqrt(0.02) * 111.
	got := PlanarKm(24.7, 46.6, 24.8, 46.7)
	want := math.Sqrt(0.02) * 111
	assert.InDelta(t, want, got, 1e-6)

	// Symmetric in argument order.
	assert.InDelta(t, got, PlanarKm(24.8, 46.7, 24.7, 46.6), 1e-9)
}

// The two formulas intentionally disagree; a unification would silently
// change both the matcher and the zone selector.
func TestPlanarAndHaversineDiffer(t *testing.T) {
	planar := PlanarKm(24.7136, 46.6753, 24.8, 46.8)
	haversine := HaversineKm(24.7136, 46.6753, 24.8, 46.8)
	assert.NotEqual(t, planar, haversine)
	assert.Greater(t, planar, haversine)
}

func TestBearingDegrees(t *testing.T) {
	// Due north.
	assert.InDelta(t, 0, BearingDegrees(0, 0, 1, 0), 0.01)
	// Due east.
	assert.InDelta(t, 90, BearingDegrees(0, 0, 0, 1), 0.01)
	// Southwest quadrant from the default patient point.
	b := BearingDegrees(24.7745, 46.6575, 24.7703, 46.6529)
	assert.Greater(t, b, 180.0)
	assert.Less(t, b, 270.0)
}

func TestBearingCardinal(t *testing.T) {
	tests := []struct {
		bearing float64
		want    string
	}{
		{0, "N"},
		{45, "NE"},
		{90, "E"},
		{180, "S"},
		{225, "SW"},
		{350, "N"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BearingCardinal(tt.bearing))
	}
}

func TestTravelMinutes(t *testing.T) {
	// 3.2 km at 120 km/h is 1.6 minutes.
	assert.InDelta(t, 1.6, TravelMinutes(3.2, AerialSpeedKmh), 1e-9)
	// Zero and negative distances are clamped to zero.
	assert.Equal(t, 0.0, TravelMinutes(0, AerialSpeedKmh))
	assert.Equal(t, 0.0, TravelMinutes(-2, AerialSpeedKmh))
	assert.Equal(t, 0.0, TravelMinutes(5, 0))
}
