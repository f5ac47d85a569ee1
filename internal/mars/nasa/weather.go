package nasa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/OfriRose/Mars/internal/mars"
)

const weatherEndpoint = "insight_weather"

// WeatherClient implements mars.WeatherSource for the InSight weather service.
type WeatherClient struct {
	client  *http.Client
	apiKey  string
	baseURL string
	circuit *gobreaker.CircuitBreaker
}

// NewWeatherClient creates a client for {baseURL}/insight_weather/.
// An empty baseURL means DefaultBaseURL.
func NewWeatherClient(client *http.Client, baseURL, apiKey string) *WeatherClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &WeatherClient{
		client:  client,
		apiKey:  apiKey,
		baseURL: baseURL,
		circuit: newCircuitBreaker(weatherEndpoint),
	}
}

type insightSensor struct {
	Av *float64 `json:"av"`
	Mn *float64 `json:"mn"`
	Mx *float64 `json:"mx"`
}

type insightSol struct {
	AT       *insightSensor `json:"AT"`
	PRE      *insightSensor `json:"PRE"`
	Season   string         `json:"Season"`
	FirstUTC string         `json:"First_UTC"`
	LastUTC  string         `json:"Last_UTC"`
}

// FetchWeather downloads the feed and returns one reading per valid sol.
func (c *WeatherClient) FetchWeather(ctx context.Context) ([]mars.WeatherReading, error) {
	values := url.Values{}
	values.Set("api_key", c.apiKey)
	values.Set("feedtype", "json")
	values.Set("ver", "1.0")
	u := fmt.Sprintf("%s/%s/?%s", c.baseURL, weatherEndpoint, values.Encode())

	var doc map[string]json.RawMessage
	if err := getJSON(ctx, c.client, c.circuit, weatherEndpoint, u, &doc); err != nil {
		return nil, err
	}

	return parseInsight(doc)
}

// parseInsight turns the per-sol document into readings. The sol list comes from
// "sol_keys"; older payloads without it are scanned for numeric top-level keys.
func parseInsight(doc map[string]json.RawMessage) ([]mars.WeatherReading, error) {
	var solKeys []string
	if raw, ok := doc["sol_keys"]; ok {
		if err := json.Unmarshal(raw, &solKeys); err != nil {
			return nil, &RequestError{Endpoint: weatherEndpoint, Err: fmt.Errorf("%w: sol_keys: %v", mars.ErrMalformedResponse, err)}
		}
	} else {
		for k := range doc {
			if isSolKey(k) {
				solKeys = append(solKeys, k)
			}
		}
		sort.Strings(solKeys)
	}

	readings := make([]mars.WeatherReading, 0, len(solKeys))
	seen := make(map[int]struct{}, len(solKeys))
	for _, key := range solKeys {
		if !isSolKey(key) {
			continue
		}
		sol, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		if _, dup := seen[sol]; dup {
			continue
		}

		raw, ok := doc[key]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			continue
		}
		var rec insightSol
		if err := json.Unmarshal(raw, &rec); err != nil {
			log.Printf("ERROR: insight sol %s has unexpected shape: %v", key, err)
			continue
		}
		seen[sol] = struct{}{}

		readings = append(readings, toReading(sol, rec))
	}

	return readings, nil
}

func toReading(sol int, rec insightSol) mars.WeatherReading {
	r := mars.WeatherReading{
		Sol:      sol,
		Season:   rec.Season,
		FirstUTC: parseUTC(rec.FirstUTC),
		LastUTC:  parseUTC(rec.LastUTC),
	}
	if r.Season == "" {
		r.Season = "Unknown"
	}
	if rec.AT != nil {
		r.AvgTempC = rec.AT.Av
		r.MinTempC = rec.AT.Mn
		r.MaxTempC = rec.AT.Mx
	}
	if rec.PRE != nil {
		r.PressurePa = rec.PRE.Av
	}
	return r
}

func isSolKey(s string) bool {
	if s == "" {
		return false
	}
	for _, ch := range s {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}

func parseUTC(s string) *time.Time {
	if s == "" {
		return nil
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	ts = ts.UTC()
	return &ts
}
