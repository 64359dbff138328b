package geo_test

import (
	"testing"

	"pns-delivery-api/geo"
	"pns-delivery-api/models"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKmIdenticalPoints(t *testing.T) {
	assert.Equal(t, 0.0, geo.DistanceKm(28.6139, 77.209, 28.6139, 77.209))
	assert.Equal(t, 0.0, geo.DistanceKm(0, 0, 0, 0))
	assert.Equal(t, 0.0, geo.DistanceKm(-90, 180, -90, 180))
}

func TestDistanceKmSymmetry(t *testing.T) {
	a := geo.DistanceKm(28.6139, 77.209, 28.655, 77.2303)
	b := geo.DistanceKm(28.655, 77.2303, 28.6139, 77.209)
	assert.InDelta(t, a, b, 1e-9)
}

func TestDistanceKmDelhiSpiceHouse(t *testing.T) {
	// Delhi Spice House to a customer a few streets north
	d := geo.DistanceKm(28.6139, 77.209, 28.617, 77.2095)
	assert.InDelta(t, 0.36, d, 0.05)
}

func TestDistanceKmAntipodal(t *testing.T) {
	// Half the Earth's circumference, no NaN from the atan2 form
	d := geo.DistanceKm(0, 0, 0, 180)
	assert.InDelta(t, 20015, d, 5)
}

func TestOrderDistanceKmMissingReferences(t *testing.T) {
	lat, lon := 28.617, 77.2095
	order := &models.Order{UserLat: &lat, UserLon: &lon}
	restaurant := &models.Restaurant{Lat: 28.6139, Lon: 77.209}

	assert.Equal(t, 0.0, geo.OrderDistanceKm(order, nil))
	assert.Equal(t, 0.0, geo.OrderDistanceKm(&models.Order{}, restaurant))
	assert.Greater(t, geo.OrderDistanceKm(order, restaurant), 0.0)
}

func TestPayout(t *testing.T) {
	assert.Equal(t, 30.0, geo.Payout(0))
	assert.Equal(t, 55.0, geo.Payout(2.5))
}
