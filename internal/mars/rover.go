package mars

import (
	"fmt"
	"slices"
	"strings"
)

// Rover is a lower-case rover identifier as used in NASA URLs.
type Rover string

const (
	Curiosity    Rover = "curiosity"
	Perseverance Rover = "perseverance"
	Opportunity  Rover = "opportunity"
	Spirit       Rover = "spirit"
)

var roverCameras = map[Rover][]string{
	Curiosity: {"FHAZ", "RHAZ", "MAST", "CHEMCAM", "MAHLI", "MARDI", "NAVCAM"},
	Perseverance: {"EDL_RUCAM", "EDL_RDCAM", "EDL_DDCAM", "EDL_PUCAM1",
		"NAVCAM_LEFT", "NAVCAM_RIGHT", "MCZ_RIGHT", "MCZ_LEFT",
		"FRONT_HAZCAM_LEFT_A", "FRONT_HAZCAM_RIGHT_A"},
	Opportunity: {"FHAZ", "RHAZ", "NAVCAM", "PANCAM", "MINITES"},
	Spirit:      {"FHAZ", "RHAZ", "NAVCAM", "PANCAM", "MINITES"},
}

// Rovers returns the supported rovers in display order.
func Rovers() []Rover {
	return []Rover{Curiosity, Perseverance, Opportunity, Spirit}
}

// ParseRover normalizes name and checks it against the supported set.
func ParseRover(name string) (Rover, error) {
	r := Rover(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := roverCameras[r]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownRover, name)
	}
	return r, nil
}

// DisplayName is the capitalized rover name, e.g. "Curiosity".
func (r Rover) DisplayName() string {
	if r == "" {
		return ""
	}
	return strings.ToUpper(string(r[:1])) + string(r[1:])
}

// Cameras lists the camera abbreviations the rover carries.
func (r Rover) Cameras() []string {
	return slices.Clone(roverCameras[r])
}

// HasCamera reports whether abbr (case-insensitive) is one of the rover's cameras.
func (r Rover) HasCamera(abbr string) bool {
	return slices.Contains(roverCameras[r], strings.ToUpper(abbr))
}
