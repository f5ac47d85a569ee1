package mars

import "context"

// WeatherSource abstracts the remote InSight weather feed.
type WeatherSource interface {
	// FetchWeather returns every valid sol in the feed, in no particular order.
	FetchWeather(ctx context.Context) ([]WeatherReading, error)
}

// PhotoSource abstracts the remote rover photo listing.
type PhotoSource interface {
	// FetchPhotos returns the first page of photos matching the query filters.
	// q.Count is not sent to the remote service.
	FetchPhotos(ctx context.Context, q PhotoQuery) ([]PhotoRecord, error)
}
