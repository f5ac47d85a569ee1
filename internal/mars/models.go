package mars

import "time"

// WeatherReading is one sol of normalized InSight atmospheric data.
// Temperatures are always Celsius; any field the lander did not report is nil.
type WeatherReading struct {
	Sol        int        `json:"sol"`
	Season     string     `json:"season"`
	MinTempC   *float64   `json:"minTempC"`
	MaxTempC   *float64   `json:"maxTempC"`
	AvgTempC   *float64   `json:"avgTempC"`
	PressurePa *float64   `json:"pressurePa"`
	FirstUTC   *time.Time `json:"firstUtc,omitempty"`
	LastUTC    *time.Time `json:"lastUtc,omitempty"`
}

// PhotoRecord is the metadata of one rover image.
type PhotoRecord struct {
	ID         string `json:"id"`
	Sol        int    `json:"sol"`
	EarthDate  string `json:"earthDate"` // YYYY-MM-DD
	CameraName string `json:"cameraName"`
	CameraCode string `json:"cameraCode"`
	ImageURL   string `json:"imageUrl"`
	RoverName  string `json:"roverName"`
}

// PhotoQuery selects rover photos. Sol, EarthDate and Camera are independent
// optional filters applied together.
type PhotoQuery struct {
	Rover     Rover
	Count     int
	Sol       *int
	EarthDate string
	Camera    string
}

// Dated reports whether the query pins a sol or an earth date.
func (q PhotoQuery) Dated() bool {
	return q.Sol != nil || q.EarthDate != ""
}

// Latest returns the most recent reading of a most-recent-first slice.
func Latest(readings []WeatherReading) (WeatherReading, bool) {
	if len(readings) == 0 {
		return WeatherReading{}, false
	}
	return readings[0], true
}
