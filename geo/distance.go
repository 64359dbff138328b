// Package geo provides the great-circle distance and delivery payout
// calculations used across the dashboards. Everything here is a pure
// function over coordinates already captured on the entities.
package geo

import (
	"math"

	"pns-delivery-api/models"
)

// earthRadiusKm is the Earth mean radius used by the haversine formula
const earthRadiusKm = 6371

// Delivery payout constants, currency-agnostic. Display rounding is left to
// the caller.
const (
	BaseFare  = 30.0
	RatePerKm = 10.0
)

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// DistanceKm computes the haversine great-circle distance in kilometres
// between two coordinates given in degrees. Total over its domain: identical
// and antipodal points are handled without division by zero.
func DistanceKm(latA, lonA, latB, lonB float64) float64 {
	dLat := toRad(latB - latA)
	dLon := toRad(lonB - lonA)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(latA))*math.Cos(toRad(latB))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// OrderDistanceKm returns the distance between the restaurant and the
// coordinate captured on the order at creation time. Returns 0 when either
// side of the pair is missing (dangling restaurant reference or an order
// without a captured location).
func OrderDistanceKm(order *models.Order, restaurant *models.Restaurant) float64 {
	if restaurant == nil || order == nil || order.UserLat == nil || order.UserLon == nil {
		return 0
	}
	return DistanceKm(restaurant.Lat, restaurant.Lon, *order.UserLat, *order.UserLon)
}

// Payout is the delivery partner's fee for a trip of the given distance
func Payout(distanceKm float64) float64 {
	return BaseFare + distanceKm*RatePerKm
}
