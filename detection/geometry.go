package detection

import "math"

const (
	earthRadiusKM = 6371.0
	kmPerDegLat   = 111.0 // approximate
	minRadiusKM   = 0.1
)

// haversineKM calculates the great-circle distance between two points
// on the earth (specified in decimal degrees).
func haversineKM(lat1, lng1, lat2, lng2 float64) float64 {
	radLat1 := lat1 * math.Pi / 180
	radLat2 := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(radLat1)*math.Cos(radLat2)*
			math.Sin(deltaLng/2)*math.Sin(deltaLng/2)

	return earthRadiusKM * 2 * math.Asin(math.Sqrt(a))
}

// centroid returns the arithmetic mean of the member coordinates. This is a
// planar approximation — fine at metro-area scale, not geodesically exact at
// larger radii; downstream thresholds were tuned against it.
func centroid(lats, lngs []float64) (float64, float64) {
	var sumLat, sumLng float64
	for i := range lats {
		sumLat += lats[i]
		sumLng += lngs[i]
	}
	n := float64(len(lats))
	return sumLat / n, sumLng / n
}

// boundingRadiusKM is the maximum geodesic distance from the center to any
// member, floored at minRadiusKM.
func boundingRadiusKM(centerLat, centerLng float64, lats, lngs []float64) float64 {
	radius := 0.0
	for i := range lats {
		if d := haversineKM(centerLat, centerLng, lats[i], lngs[i]); d > radius {
			radius = d
		}
	}
	return math.Max(radius, minRadiusKM)
}

// roundTo rounds x to the given number of decimal places.
func roundTo(x float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	return math.Round(x*shift) / shift
}
