package geo

import "math"

// earthRadiusMeters adalah radius rata-rata bumi untuk formula haversine.
const earthRadiusMeters = 6371000.0

// DistanceMeters menghitung jarak great-circle antara dua koordinat
// (derajat) memakai formula haversine. Koordinat di luar rentang tidak
// divalidasi; hasilnya deterministik mengikuti rumus.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// WithinRadius melaporkan apakah titik berada dalam radius (meter) dari
// pusat. Batas radius inklusif.
func WithinRadius(lat, lon, centerLat, centerLon, radiusMeters float64) bool {
	return DistanceMeters(lat, lon, centerLat, centerLon) <= radiusMeters
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
