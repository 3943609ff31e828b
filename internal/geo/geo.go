package geo

import "math"

// Radio medio de la Tierra en km.
const earthRadiusKm = 6371.0

// DistanceKm calcula la distancia de gran circulo (haversine) entre dos
// pares lat/lon en kilometros. Es simetrica y devuelve 0 solo cuando los
// puntos coinciden. El caller debe garantizar que ambas coordenadas existen:
// "coordenada ausente" significa distancia desconocida, no 0.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// RoundKm redondea a un decimal para presentacion. El calculo interno
// siempre trabaja con precision completa.
func RoundKm(km float64) float64 {
	return math.Round(km*10) / 10
}
