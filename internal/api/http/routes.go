package httpapi

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/OfriRose/Mars/internal/mars"
	"github.com/OfriRose/Mars/internal/units"
)

var validate = validator.New()

// fetchTimeout bounds a single request's outbound NASA calls.
const fetchTimeout = 15 * time.Second

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *mars.Service) {
	v1 := app.Group("/api/v1/mars")

	v1.Get("/weather", func(c *fiber.Ctx) error {
		var q weatherQuery
		if err := q.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		ctx, cancel := context.WithTimeout(c.UserContext(), fetchTimeout)
		defer cancel()

		readings, err := service.GetWeather(ctx)
		outcome := mars.Classify(err)
		if !outcome.Empty() && outcome != mars.OutcomeOK {
			return outcomeError(c, outcome)
		}

		resp := weatherResponse{
			Status:   outcome,
			Message:  outcome.Message(),
			Unit:     q.unit,
			Readings: make([]readingView, 0, len(readings)),
		}
		for _, r := range readings {
			resp.Readings = append(resp.Readings, newReadingView(r, q.unit))
		}
		if latest, ok := mars.Latest(readings); ok {
			v := newReadingView(latest, q.unit)
			resp.Latest = &v
		}
		return c.JSON(resp)
	})

	v1.Get("/photos", func(c *fiber.Ctx) error {
		var q photosQuery
		if err := q.bind(c, service.DefaultPhotoCount()); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		ctx, cancel := context.WithTimeout(c.UserContext(), fetchTimeout)
		defer cancel()

		photos, err := service.GetPhotos(ctx, q.toQuery())
		outcome := mars.Classify(err)
		if outcome == mars.OutcomeBadRequest {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if !outcome.Empty() && outcome != mars.OutcomeOK {
			return outcomeError(c, outcome)
		}

		if photos == nil {
			photos = []mars.PhotoRecord{}
		}
		return c.JSON(photosResponse{
			Status:  outcome,
			Message: outcome.Message(),
			Rover:   mars.Rover(q.Rover).DisplayName(),
			Photos:  photos,
		})
	})

	v1.Get("/rovers", func(c *fiber.Ctx) error {
		rovers := make([]roverView, 0, len(mars.Rovers()))
		for _, r := range mars.Rovers() {
			rovers = append(rovers, roverView{
				ID:      string(r),
				Name:    r.DisplayName(),
				Cameras: r.Cameras(),
			})
		}
		return c.JSON(fiber.Map{"rovers": rovers})
	})
}

// outcomeError renders a failed fetch with a user-facing message instead of the raw error.
func outcomeError(c *fiber.Ctx, outcome mars.Outcome) error {
	code := fiber.StatusBadGateway
	if outcome == mars.OutcomeRateLimited {
		code = fiber.StatusTooManyRequests
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"status":  outcome,
		"message": outcome.Message(),
	})
}

type weatherQuery struct {
	unit units.Unit
}

func (w *weatherQuery) bind(c *fiber.Ctx) error {
	u, err := units.ParseUnit(c.Query("unit"))
	if err != nil {
		return err
	}
	w.unit = u
	return nil
}

type weatherResponse struct {
	Status   mars.Outcome  `json:"status"`
	Message  string        `json:"message,omitempty"`
	Unit     units.Unit    `json:"unit"`
	Latest   *readingView  `json:"latest,omitempty"`
	Readings []readingView `json:"readings"`
}

// readingView is a WeatherReading converted for display in one unit.
type readingView struct {
	Sol        int      `json:"sol"`
	SolLabel   string   `json:"solLabel"`
	Season     string   `json:"season"`
	EarthDate  string   `json:"earthDate,omitempty"`
	MinTemp    *float64 `json:"minTemp"`
	MaxTemp    *float64 `json:"maxTemp"`
	AvgTemp    *float64 `json:"avgTemp"`
	PressurePa *float64 `json:"pressurePa"`

	MinTempText  string `json:"minTempText"`
	MaxTempText  string `json:"maxTempText"`
	AvgTempText  string `json:"avgTempText"`
	PressureText string `json:"pressureText"`
	AvgTempColor string `json:"avgTempColor"`
}

func newReadingView(r mars.WeatherReading, u units.Unit) readingView {
	v := readingView{
		Sol:        r.Sol,
		SolLabel:   units.FormatSol(r.Sol),
		Season:     r.Season,
		MinTemp:    units.Convert(r.MinTempC, u),
		MaxTemp:    units.Convert(r.MaxTempC, u),
		AvgTemp:    units.Convert(r.AvgTempC, u),
		PressurePa: r.PressurePa,
	}
	if r.FirstUTC != nil {
		v.EarthDate = r.FirstUTC.Format("2006-01-02")
	}
	v.MinTempText = units.FormatTemperature(v.MinTemp, u)
	v.MaxTempText = units.FormatTemperature(v.MaxTemp, u)
	v.AvgTempText = units.FormatTemperature(v.AvgTemp, u)
	v.PressureText = units.FormatPressure(r.PressurePa)
	// Colour bands are defined on Celsius regardless of display unit.
	v.AvgTempColor = units.TemperatureColor(r.AvgTempC)
	return v
}

// photosQuery holds query parameters for the photos endpoint.
type photosQuery struct {
	Rover     string `validate:"required,oneof=curiosity perseverance opportunity spirit"`
	Count     int    `validate:"gte=1,lte=25"`
	Sol       *int   `validate:"omitempty,gte=0"`
	EarthDate string `validate:"omitempty,datetime=2006-01-02"`
	Camera    string `validate:"omitempty,max=32"`
}

func (p *photosQuery) bind(c *fiber.Ctx, defaultCount int) error {
	p.Rover = strings.ToLower(strings.TrimSpace(c.Query("rover", string(mars.Curiosity))))
	p.EarthDate = strings.TrimSpace(c.Query("earth_date"))
	p.Camera = strings.TrimSpace(c.Query("camera"))

	p.Count = defaultCount
	if s := c.Query("count"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return errors.New("count must be an integer")
		}
		p.Count = n
	}

	if s := c.Query("sol"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return errors.New("sol must be an integer")
		}
		p.Sol = &n
	}
	return nil
}

func (p photosQuery) toQuery() mars.PhotoQuery {
	return mars.PhotoQuery{
		Rover:     mars.Rover(p.Rover),
		Count:     p.Count,
		Sol:       p.Sol,
		EarthDate: p.EarthDate,
		Camera:    p.Camera,
	}
}

type photosResponse struct {
	Status  mars.Outcome       `json:"status"`
	Message string             `json:"message,omitempty"`
	Rover   string             `json:"rover"`
	Photos  []mars.PhotoRecord `json:"photos"`
}

type roverView struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Cameras []string `json:"cameras"`
}
