package env

import "math"

// Sample represents a single environmental measurement (BME280).
// A field holding NaN was not measured.
type Sample struct {
	Temperature float64 `json:"temp_c"`       // °C
	Humidity    float64 `json:"humidity_rh"`  // %RH
	Pressure    float64 `json:"pressure_hpa"` // hPa
}

// Invalid is a sample with no field measured.
func Invalid() Sample {
	return Sample{Temperature: math.NaN(), Humidity: math.NaN(), Pressure: math.NaN()}
}

// Valid reports whether v is a usable measurement.
func Valid(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
