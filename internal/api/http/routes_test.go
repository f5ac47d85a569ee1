package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/OfriRose/Mars/internal/cache"
	"github.com/OfriRose/Mars/internal/mars"
)

type stubWeather struct {
	readings []mars.WeatherReading
	err      error
}

func (s *stubWeather) FetchWeather(context.Context) ([]mars.WeatherReading, error) {
	return s.readings, s.err
}

type stubPhotos struct {
	photos []mars.PhotoRecord
	err    error
}

func (s *stubPhotos) FetchPhotos(context.Context, mars.PhotoQuery) ([]mars.PhotoRecord, error) {
	return s.photos, s.err
}

func f(v float64) *float64 { return &v }

func newTestApp(w mars.WeatherSource, p mars.PhotoSource) *fiber.App {
	app := fiber.New()
	svc := mars.NewService(cache.New(), w, p, mars.Options{})
	RegisterRoutes(app, svc)
	return app
}

func doGet(t *testing.T, app *fiber.App, target string, out any) int {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()
	if out != nil && resp.Header.Get("Content-Type") == fiber.MIMEApplicationJSON {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return resp.StatusCode
}

func TestWeatherEndpointConvertsUnits(t *testing.T) {
	app := newTestApp(&stubWeather{readings: []mars.WeatherReading{
		{Sol: 999, Season: "winter", AvgTempC: f(-50)},
		{Sol: 1000, Season: "winter", AvgTempC: f(-60), MinTempC: f(-90), MaxTempC: f(-10)},
	}}, &stubPhotos{})

	var body weatherResponse
	if code := doGet(t, app, "/api/v1/mars/weather?unit=F", &body); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if body.Status != mars.OutcomeOK || body.Unit != "F" {
		t.Fatalf("unexpected body: %+v", body)
	}
	if len(body.Readings) != 2 || body.Readings[0].Sol != 1000 {
		t.Fatalf("expected most recent sol first, got %+v", body.Readings)
	}
	if body.Latest == nil || body.Latest.AvgTemp == nil || *body.Latest.AvgTemp != -76 {
		t.Fatalf("expected -76°F average, got %+v", body.Latest)
	}
	if body.Latest.MaxTempText != "14.0°F" || body.Latest.PressureText != "N/A" {
		t.Fatalf("unexpected formatting: %+v", body.Latest)
	}
}

func TestWeatherEndpointRejectsUnknownUnit(t *testing.T) {
	app := newTestApp(&stubWeather{}, &stubPhotos{})
	if code := doGet(t, app, "/api/v1/mars/weather?unit=K", nil); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}

func TestWeatherEndpointEmptyFeed(t *testing.T) {
	app := newTestApp(&stubWeather{readings: nil}, &stubPhotos{})

	var body weatherResponse
	if code := doGet(t, app, "/api/v1/mars/weather", &body); code != http.StatusOK {
		t.Fatalf("expected 200 for empty feed, got %d", code)
	}
	if body.Status != mars.OutcomeDataUnavailable || body.Message == "" || len(body.Readings) != 0 {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestWeatherEndpointFailureOutcomes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		want mars.Outcome
	}{
		{"rate limited", mars.ErrRateLimited, http.StatusTooManyRequests, mars.OutcomeRateLimited},
		{"network", fmt.Errorf("dial: %w", mars.ErrNetwork), http.StatusBadGateway, mars.OutcomeNetworkError},
		{"malformed", fmt.Errorf("decode: %w", mars.ErrMalformedResponse), http.StatusBadGateway, mars.OutcomeMalformedResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(&stubWeather{err: tt.err}, &stubPhotos{})

			var body struct {
				Error   bool         `json:"error"`
				Status  mars.Outcome `json:"status"`
				Message string       `json:"message"`
			}
			if code := doGet(t, app, "/api/v1/mars/weather", &body); code != tt.code {
				t.Fatalf("expected %d, got %d", tt.code, code)
			}
			if !body.Error || body.Status != tt.want || body.Message != tt.want.Message() {
				t.Fatalf("unexpected body: %+v", body)
			}
		})
	}
}

func TestPhotosEndpointTruncates(t *testing.T) {
	var photos []mars.PhotoRecord
	for i := 0; i < 10; i++ {
		photos = append(photos, mars.PhotoRecord{ID: fmt.Sprint(i), Sol: 100 - i, ImageURL: "https://x/y.jpg", RoverName: "Curiosity"})
	}
	app := newTestApp(&stubWeather{}, &stubPhotos{photos: photos})

	var body photosResponse
	if code := doGet(t, app, "/api/v1/mars/photos?rover=curiosity&count=3", &body); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if len(body.Photos) != 3 || body.Photos[0].ID != "0" || body.Photos[2].ID != "2" {
		t.Fatalf("unexpected photos: %+v", body.Photos)
	}
	if body.Rover != "Curiosity" {
		t.Fatalf("unexpected rover %q", body.Rover)
	}
}

func TestPhotosEndpointNoPhotos(t *testing.T) {
	app := newTestApp(&stubWeather{}, &stubPhotos{})

	var body photosResponse
	if code := doGet(t, app, "/api/v1/mars/photos?rover=spirit&sol=1", &body); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if body.Status != mars.OutcomeNoPhotos || body.Photos == nil || len(body.Photos) != 0 {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestPhotosEndpointValidation(t *testing.T) {
	app := newTestApp(&stubWeather{}, &stubPhotos{})

	for _, target := range []string{
		"/api/v1/mars/photos?rover=sojourner",
		"/api/v1/mars/photos?count=0",
		"/api/v1/mars/photos?count=26",
		"/api/v1/mars/photos?count=three",
		"/api/v1/mars/photos?sol=-1",
		"/api/v1/mars/photos?earth_date=30-05-2015",
		"/api/v1/mars/photos?rover=perseverance&camera=MAHLI",
	} {
		if code := doGet(t, app, target, nil); code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, code)
		}
	}
}

func TestPhotosEndpointRateLimited(t *testing.T) {
	app := newTestApp(&stubWeather{}, &stubPhotos{err: mars.ErrRateLimited})
	if code := doGet(t, app, "/api/v1/mars/photos", nil); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", code)
	}
}

func TestRoversEndpoint(t *testing.T) {
	app := newTestApp(&stubWeather{}, &stubPhotos{})

	var body struct {
		Rovers []roverView `json:"rovers"`
	}
	if code := doGet(t, app, "/api/v1/mars/rovers", &body); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if len(body.Rovers) != 4 || body.Rovers[0].ID != "curiosity" || len(body.Rovers[0].Cameras) == 0 {
		t.Fatalf("unexpected rovers: %+v", body.Rovers)
	}
}
