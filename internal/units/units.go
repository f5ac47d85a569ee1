package units

import (
	"fmt"
	"strings"
)

// Unit is a temperature display unit.
type Unit string

const (
	Celsius    Unit = "C"
	Fahrenheit Unit = "F"
)

// ParseUnit accepts "C"/"F" in any case; empty means Celsius.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "C":
		return Celsius, nil
	case "F":
		return Fahrenheit, nil
	default:
		return "", fmt.Errorf("unknown temperature unit %q", s)
	}
}

// Symbol returns the degree suffix for u.
func (u Unit) Symbol() string {
	if u == Fahrenheit {
		return "°F"
	}
	return "°C"
}

// CelsiusToFahrenheit converts c to Fahrenheit.
func CelsiusToFahrenheit(c float64) float64 {
	return c*9/5 + 32
}

// FahrenheitToCelsius converts f to Celsius.
func FahrenheitToCelsius(f float64) float64 {
	return (f - 32) * 5 / 9
}

// Convert returns a Celsius reading in the requested unit. Nil stays nil.
// Readings are stored in Celsius; conversion only happens for display.
func Convert(celsius *float64, u Unit) *float64 {
	if celsius == nil {
		return nil
	}
	v := *celsius
	if u == Fahrenheit {
		v = CelsiusToFahrenheit(v)
	}
	return &v
}

// FormatTemperature renders temp (already in unit u) like "-60.0°C", or "N/A".
func FormatTemperature(temp *float64, u Unit) string {
	if temp == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.1f%s", *temp, u.Symbol())
}

// FormatPressure renders a pressure in pascals like "750 Pa", or "N/A".
func FormatPressure(pa *float64) string {
	if pa == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.0f Pa", *pa)
}

// FormatSol renders a Martian day number.
func FormatSol(sol int) string {
	return fmt.Sprintf("Sol %d", sol)
}

// TemperatureColor picks a display colour for a Celsius temperature.
// Mars surface temperatures run roughly from -125°C to 20°C.
func TemperatureColor(celsius *float64) string {
	if celsius == nil {
		return "#888888"
	}
	switch t := *celsius; {
	case t > 0:
		return "#FF6B35"
	case t > -40:
		return "#4ECDC4"
	case t > -80:
		return "#4A90E2"
	default:
		return "#B8E6F0"
	}
}
