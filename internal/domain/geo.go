package domain

import "math"

const earthRadiusKm = 6371.0

// DistanceKm returns the haversine great-circle distance between two points in
// kilometres, rounded to two decimal places.
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	φ1 := lat1 * math.Pi / 180
	φ2 := lat2 * math.Pi / 180
	Δφ := (lat2 - lat1) * math.Pi / 180
	Δλ := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(Δφ/2)*math.Sin(Δφ/2) + math.Cos(φ1)*math.Cos(φ2)*math.Sin(Δλ/2)*math.Sin(Δλ/2)
	d := earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return math.Round(d*100) / 100
}
