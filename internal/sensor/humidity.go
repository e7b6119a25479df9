package sensor

import "github.com/chewxy/math32"

// absoluteHumidity converts relative humidity and temperature to absolute
// humidity in g/m3 using the Magnus saturation vapour pressure approximation.
// The gas sensor's compensation input expects absolute humidity.
func absoluteHumidity(humidityPct, tempC float32) float32 {
	svp := 6.112 * math32.Exp((17.62*tempC)/(243.12+tempC))
	return 216.7 * (humidityPct / 100 * svp) / (273.15 + tempC)
}
