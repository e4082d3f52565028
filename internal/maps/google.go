package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const DefaultBaseURL = "https://maps.googleapis.com"

// HTTPClient talks to the Google Geocoding and Distance Matrix JSON APIs.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	region     string
	httpClient *http.Client
}

func NewHTTPClient(baseURL, apiKey, region string, timeout time.Duration) *HTTPClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		region:     region,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) doReq(ctx context.Context, path string, q url.Values, out interface{}) error {
	q.Set("key", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("maps GET %s: %d %s", path, resp.StatusCode, string(body))
	}
	return json.Unmarshal(body, out)
}

type geocodeResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location Coordinate `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

func (c *HTTPClient) Geocode(ctx context.Context, address string, _ TravelMode) (Coordinate, error) {
	q := url.Values{}
	q.Set("address", address)
	if c.region != "" {
		q.Set("region", c.region)
	}

	var resp geocodeResponse
	if err := c.doReq(ctx, "/maps/api/geocode/json", q, &resp); err != nil {
		return Coordinate{}, err
	}
	switch resp.Status {
	case "OK":
	case "ZERO_RESULTS":
		return Coordinate{}, fmt.Errorf("%w: %q", ErrNotFound, address)
	default:
		return Coordinate{}, fmt.Errorf("maps geocode: %s %s", resp.Status, resp.ErrorMessage)
	}
	if len(resp.Results) == 0 {
		return Coordinate{}, fmt.Errorf("%w: %q", ErrNotFound, address)
	}
	return resp.Results[0].Geometry.Location, nil
}

type distanceMatrixResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Rows         []struct {
		Elements []struct {
			Status   string `json:"status"`
			Distance struct {
				Text  string  `json:"text"`
				Value float64 `json:"value"`
			} `json:"distance"`
		} `json:"elements"`
	} `json:"rows"`
}

func (c *HTTPClient) Distance(ctx context.Context, origin Coordinate, dest Destination, mode TravelMode) (Distance, error) {
	q := url.Values{}
	q.Set("origins", origin.String())
	q.Set("destinations", dest.query())
	q.Set("mode", string(mode))
	if c.region != "" {
		q.Set("region", c.region)
	}

	var resp distanceMatrixResponse
	if err := c.doReq(ctx, "/maps/api/distancematrix/json", q, &resp); err != nil {
		return Distance{}, err
	}
	if resp.Status != "OK" {
		return Distance{}, fmt.Errorf("maps distance matrix: %s %s", resp.Status, resp.ErrorMessage)
	}
	if len(resp.Rows) == 0 || len(resp.Rows[0].Elements) == 0 {
		return Distance{}, fmt.Errorf("%w: %s", ErrNotComputable, dest.Name)
	}
	el := resp.Rows[0].Elements[0]
	if el.Status != "OK" {
		return Distance{}, fmt.Errorf("%w: %s (%s)", ErrNotComputable, dest.Name, el.Status)
	}
	return Distance{Meters: el.Distance.Value, Text: el.Distance.Text}, nil
}
