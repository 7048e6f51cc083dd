package domain

import "math"

// earthRadiusKm is the Earth mean radius used by the haversine formula.
const earthRadiusKm = 6371.0088

// Haversine computes the great-circle distance in kilometers between two
// WGS-84 coordinate pairs given in decimal degrees. Pure and total over the
// valid coordinate domain.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := radians(lat1)
	phi2 := radians(lat2)
	dPhi := radians(lat2 - lat1)
	dLambda := radians(lon2 - lon1)

	sinPhi := math.Sin(dPhi / 2)
	sinLambda := math.Sin(dLambda / 2)
	a := sinPhi*sinPhi + math.Cos(phi1)*math.Cos(phi2)*sinLambda*sinLambda

	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
