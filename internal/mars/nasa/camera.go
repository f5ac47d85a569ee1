package nasa

import (
	"strings"
)

// cameraNames maps instrument codes to readable names. Longer codes come first
// so prefix matching picks the most specific entry.
var cameraNames = []struct {
	code string
	name string
}{
	{"NAV_LEFT_B", "Navigation Camera - Left B"},
	{"NAV_RIGHT_B", "Navigation Camera - Right B"},
	{"NAV_LEFT", "Navigation Camera - Left"},
	{"NAV_RIGHT", "Navigation Camera - Right"},
	{"FHAZ_LEFT", "Front Hazard Avoidance Camera - Left"},
	{"FHAZ_RIGHT", "Front Hazard Avoidance Camera - Right"},
	{"RHAZ_LEFT", "Rear Hazard Avoidance Camera - Left"},
	{"RHAZ_RIGHT", "Rear Hazard Avoidance Camera - Right"},
	{"MAST_LEFT", "Mast Camera - Left"},
	{"MAST_RIGHT", "Mast Camera - Right"},
	{"FHAZ", "Front Hazard Avoidance Camera"},
	{"RHAZ", "Rear Hazard Avoidance Camera"},
	{"MAST", "Mast Camera"},
	{"NAVCAM", "Navigation Camera"},
	{"MAHLI", "Mars Hand Lens Imager"},
	{"MARDI", "Mars Descent Imager"},
	{"CHEMCAM", "Chemistry and Camera Complex"},
	{"PANCAM", "Panoramic Camera"},
	{"MINITES", "Miniature Thermal Emission Spectrometer (Mini-TES)"},
}

// FormatCameraName converts an instrument code such as "NAV_RIGHT_B" into a display name.
// Unknown codes are title-cased with underscores replaced by spaces.
func FormatCameraName(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return "Unknown"
	}
	upper := strings.ToUpper(code)

	for _, c := range cameraNames {
		if upper == c.code {
			return c.name
		}
	}
	for _, c := range cameraNames {
		if strings.HasPrefix(upper, c.code) {
			return c.name
		}
	}

	words := strings.Fields(strings.ReplaceAll(code, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
