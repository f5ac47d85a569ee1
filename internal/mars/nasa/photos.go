package nasa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sony/gobreaker"

	"github.com/OfriRose/Mars/internal/mars"
)

const photosEndpoint = "mars-photos"

// PhotoClient implements mars.PhotoSource for the Mars Rover Photos service.
type PhotoClient struct {
	client  *http.Client
	apiKey  string
	baseURL string
	circuit *gobreaker.CircuitBreaker
}

// NewPhotoClient creates a client for {baseURL}/mars-photos/api/v1.
// An empty baseURL means DefaultBaseURL.
func NewPhotoClient(client *http.Client, baseURL, apiKey string) *PhotoClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &PhotoClient{
		client:  client,
		apiKey:  apiKey,
		baseURL: baseURL,
		circuit: newCircuitBreaker(photosEndpoint),
	}
}

// photoID accepts both numeric and string identifiers.
type photoID string

func (id *photoID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = photoID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = photoID(n.String())
	return nil
}

type remotePhoto struct {
	ID     photoID `json:"id"`
	Sol    int     `json:"sol"`
	Camera struct {
		Name     string `json:"name"`
		FullName string `json:"full_name"`
	} `json:"camera"`
	ImgSrc    string `json:"img_src"`
	EarthDate string `json:"earth_date"`
	Rover     struct {
		Name string `json:"name"`
	} `json:"rover"`
}

type photosPayload struct {
	Photos       []remotePhoto `json:"photos"`
	LatestPhotos []remotePhoto `json:"latest_photos"`
}

// FetchPhotos requests the first page of photos. The photos listing needs a sol or
// an earth date, so without either the latest_photos listing is used and a camera
// filter is applied locally. Otherwise sol, earth_date and camera are sent together.
func (c *PhotoClient) FetchPhotos(ctx context.Context, q mars.PhotoQuery) ([]mars.PhotoRecord, error) {
	rover := url.PathEscape(string(q.Rover))
	if rover == "" {
		return nil, fmt.Errorf("%w: rover is required", mars.ErrUnknownRover)
	}

	values := url.Values{}
	values.Set("api_key", c.apiKey)
	values.Set("page", "1")

	listing := "latest_photos"
	localCamera := q.Camera
	if q.Dated() {
		listing = "photos"
		localCamera = ""
		if q.Sol != nil {
			values.Set("sol", strconv.Itoa(*q.Sol))
		}
		if q.EarthDate != "" {
			values.Set("earth_date", q.EarthDate)
		}
		if q.Camera != "" {
			values.Set("camera", strings.ToLower(q.Camera))
		}
	}

	u := fmt.Sprintf("%s/%s/api/v1/rovers/%s/%s?%s", c.baseURL, photosEndpoint, rover, listing, values.Encode())

	var payload photosPayload
	if err := getJSON(ctx, c.client, c.circuit, photosEndpoint, u, &payload); err != nil {
		return nil, err
	}

	items := payload.Photos
	if len(items) == 0 {
		items = payload.LatestPhotos
	}

	records := make([]mars.PhotoRecord, 0, len(items))
	for _, p := range items {
		if p.ImgSrc == "" {
			continue
		}
		if localCamera != "" && !strings.EqualFold(p.Camera.Name, localCamera) {
			continue
		}
		roverName := p.Rover.Name
		if roverName == "" {
			roverName = q.Rover.DisplayName()
		}
		cameraName := p.Camera.FullName
		if cameraName == "" {
			cameraName = FormatCameraName(p.Camera.Name)
		}
		records = append(records, mars.PhotoRecord{
			ID:         string(p.ID),
			Sol:        p.Sol,
			EarthDate:  p.EarthDate,
			CameraName: cameraName,
			CameraCode: p.Camera.Name,
			ImageURL:   secureURL(p.ImgSrc),
			RoverName:  roverName,
		})
	}
	return records, nil
}

// secureURL upgrades plain-http image links so browsers do not block them as mixed content.
func secureURL(s string) string {
	if strings.HasPrefix(s, "http://") {
		return "https://" + strings.TrimPrefix(s, "http://")
	}
	return s
}
