package mars

import (
	"cmp"
	"context"
	"fmt"
	"log"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/OfriRose/Mars/internal/cache"
)

// Options tunes the service. Zero values fall back to the defaults below.
type Options struct {
	CacheTTL          time.Duration
	MaxSols           int
	DefaultPhotoCount int
}

const (
	DefaultCacheTTL   = time.Hour
	DefaultMaxSols    = 7
	DefaultPhotoCount = 5
)

// Service answers weather and photo requests through a shared TTL cache.
type Service struct {
	cache   *cache.Cache
	weather WeatherSource
	photos  PhotoSource
	opts    Options
}

// NewService creates a new Service. The cache is owned by the caller and
// normally lives for the whole process.
func NewService(c *cache.Cache, weather WeatherSource, photos PhotoSource, opts Options) *Service {
	if opts.CacheTTL == 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	if opts.MaxSols <= 0 {
		opts.MaxSols = DefaultMaxSols
	}
	if opts.DefaultPhotoCount <= 0 {
		opts.DefaultPhotoCount = DefaultPhotoCount
	}
	return &Service{
		cache:   c,
		weather: weather,
		photos:  photos,
		opts:    opts,
	}
}

// DefaultPhotoCount returns the count used when a query does not set one.
func (s *Service) DefaultPhotoCount() int {
	return s.opts.DefaultPhotoCount
}

// CacheStats exposes the underlying cache counters.
func (s *Service) CacheStats() cache.Stats {
	return s.cache.Stats()
}

// GetWeather returns up to MaxSols readings, most recent sol first.
// A feed without sols yields an empty slice and ErrDataUnavailable.
func (s *Service) GetWeather(ctx context.Context) ([]WeatherReading, error) {
	key := cache.NewKey("insight_weather", url.Values{
		"feedtype": {"json"},
		"ver":      {"1.0"},
	})

	all, err := cache.GetOrFetch(ctx, s.cache, key, s.opts.CacheTTL, s.weather.FetchWeather)
	if err != nil {
		log.Printf("ERROR: weather fetch failed: %v", err)
		return nil, err
	}

	readings := normalizeReadings(all)
	if len(readings) == 0 {
		log.Printf("INFO: weather feed contained no sols")
		return []WeatherReading{}, ErrDataUnavailable
	}
	if len(readings) > s.opts.MaxSols {
		readings = readings[:s.opts.MaxSols]
	}
	return readings, nil
}

// normalizeReadings copies in, drops duplicate sols and sorts most recent first.
// The cached slice is never reordered in place.
func normalizeReadings(in []WeatherReading) []WeatherReading {
	seen := make(map[int]struct{}, len(in))
	out := make([]WeatherReading, 0, len(in))
	for _, r := range in {
		if _, dup := seen[r.Sol]; dup {
			continue
		}
		seen[r.Sol] = struct{}{}
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b WeatherReading) int {
		return cmp.Compare(b.Sol, a.Sol)
	})
	return out
}

// GetPhotos returns at most q.Count photos for the rover, newest first.
// An empty result yields an empty slice and ErrNoPhotos.
func (s *Service) GetPhotos(ctx context.Context, q PhotoQuery) ([]PhotoRecord, error) {
	rover, err := ParseRover(string(q.Rover))
	if err != nil {
		return nil, err
	}
	q.Rover = rover
	q.Camera = strings.ToUpper(strings.TrimSpace(q.Camera))
	if q.Camera != "" && !rover.HasCamera(q.Camera) {
		return nil, fmt.Errorf("%w: %s has no %q camera", ErrUnknownCamera, rover.DisplayName(), q.Camera)
	}
	if q.Count <= 0 {
		q.Count = s.opts.DefaultPhotoCount
	}

	// Count is applied client-side, so every count shares one entry per filter set.
	key := cache.NewKey("mars-photos/"+string(rover), photoParams(q))

	all, err := cache.GetOrFetch(ctx, s.cache, key, s.opts.CacheTTL, func(ctx context.Context) ([]PhotoRecord, error) {
		return s.photos.FetchPhotos(ctx, q)
	})
	if err != nil {
		log.Printf("ERROR: photo fetch failed for %s: %v", rover, err)
		return nil, err
	}

	photos := newestFirst(all)
	if len(photos) == 0 {
		return []PhotoRecord{}, fmt.Errorf("%w for %s", ErrNoPhotos, rover.DisplayName())
	}
	if len(photos) > q.Count {
		photos = photos[:q.Count]
	}
	return photos, nil
}

func photoParams(q PhotoQuery) url.Values {
	params := url.Values{}
	if q.Sol != nil {
		params.Set("sol", strconv.Itoa(*q.Sol))
	}
	if q.EarthDate != "" {
		params.Set("earth_date", q.EarthDate)
	}
	if q.Camera != "" {
		params.Set("camera", q.Camera)
	}
	return params
}

// newestFirst copies in and orders it by sol, then earth date, both descending.
// Photos that tie keep the order the remote service returned them in.
func newestFirst(in []PhotoRecord) []PhotoRecord {
	out := slices.Clone(in)
	slices.SortStableFunc(out, func(a, b PhotoRecord) int {
		if c := cmp.Compare(b.Sol, a.Sol); c != 0 {
			return c
		}
		return strings.Compare(b.EarthDate, a.EarthDate)
	})
	return out
}
