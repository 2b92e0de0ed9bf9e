package geospatial

import "math"

const (
	earthRadiusKm = 6371.0
	earthRadiusMi = 3959.0
)

// EarthRadius returns the mean earth radius in miles or kilometers.
func EarthRadius(miles bool) float64 {
	if miles {
		return earthRadiusMi
	}
	return earthRadiusKm
}

// Haversine calculates the great-circle distance between two points,
// in miles when miles is true and kilometers otherwise.
func Haversine(lat1, lon1, lat2, lon2 float64, miles bool) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadius(miles) * c
}

// Within returns the items whose distance from (lat, lon) is at most radius,
// preserving input order. A NaN distance never satisfies the comparison, so
// malformed coordinates are dropped.
func Within[T any](items []T, lat, lon, radius float64, miles bool, pos func(T) (float64, float64)) []T {
	var out []T
	for _, item := range items {
		iLat, iLon := pos(item)
		if Haversine(lat, lon, iLat, iLon, miles) <= radius {
			out = append(out, item)
		}
	}
	return out
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
