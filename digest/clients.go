// Package digest builds the personalized newsletter email: headlines for the
// subscriber's interest and, when a location is known, the current weather.
package digest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

type Article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Source      struct {
		Name string `json:"name"`
	} `json:"source"`
}

type newsResponse struct {
	Status   string    `json:"status"`
	Message  string    `json:"message"`
	Articles []Article `json:"articles"`
}

// NewsClient talks to a NewsAPI compatible endpoint.
type NewsClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewNewsClient(baseURL, apiKey string, timeout time.Duration) *NewsClient {
	return &NewsClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

// Headlines returns up to limit articles matching topic.
func (c *NewsClient) Headlines(ctx context.Context, topic string, limit int) ([]Article, error) {
	q := url.Values{}
	q.Set("q", topic)
	q.Set("pageSize", strconv.Itoa(limit))
	q.Set("sortBy", "publishedAt")

	header := http.Header{}
	header.Set("X-Api-Key", c.apiKey)

	var resp newsResponse
	if err := getJSON(ctx, c.httpClient, c.baseURL+"/v2/everything?"+q.Encode(), header, &resp); err != nil {
		return nil, fmt.Errorf("news request failed: %w", err)
	}
	if resp.Status != "" && resp.Status != "ok" {
		return nil, fmt.Errorf("news api error: %s", resp.Message)
	}
	if len(resp.Articles) > limit {
		resp.Articles = resp.Articles[:limit]
	}
	return resp.Articles, nil
}

type Weather struct {
	Location    string
	Condition   string
	TempC       float64
	TempF       float64
	FeelsLikeC  float64
	HumidityPct int
}

type weatherResponse struct {
	Location struct {
		Name    string `json:"name"`
		Region  string `json:"region"`
		Country string `json:"country"`
	} `json:"location"`
	Current struct {
		TempC      float64 `json:"temp_c"`
		TempF      float64 `json:"temp_f"`
		FeelsLikeC float64 `json:"feelslike_c"`
		Humidity   int     `json:"humidity"`
		Condition  struct {
			Text string `json:"text"`
		} `json:"condition"`
	} `json:"current"`
}

// WeatherClient talks to a WeatherAPI compatible endpoint.
type WeatherClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewWeatherClient(baseURL, apiKey string, timeout time.Duration) *WeatherClient {
	return &WeatherClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

func (c *WeatherClient) Current(ctx context.Context, location string) (*Weather, error) {
	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("q", location)

	var resp weatherResponse
	if err := getJSON(ctx, c.httpClient, c.baseURL+"/v1/current.json?"+q.Encode(), nil, &resp); err != nil {
		return nil, fmt.Errorf("weather request failed: %w", err)
	}

	name := resp.Location.Name
	if resp.Location.Region != "" {
		name += ", " + resp.Location.Region
	}
	return &Weather{
		Location:    name,
		Condition:   resp.Current.Condition.Text,
		TempC:       resp.Current.TempC,
		TempF:       resp.Current.TempF,
		FeelsLikeC:  resp.Current.FeelsLikeC,
		HumidityPct: resp.Current.Humidity,
	}, nil
}

// secretParams are query parameters that carry credentials. They are masked
// in transport errors, which quote the request URL and end up in logs.
var secretParams = []string{"key", "apiKey"}

func getJSON(ctx context.Context, client *http.Client, rawURL string, header http.Header, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return redactURL(err)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return redactURL(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func redactURL(err error) error {
	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		return err
	}
	u, perr := url.Parse(urlErr.URL)
	if perr != nil {
		return &url.Error{Op: urlErr.Op, URL: "[redacted]", Err: urlErr.Err}
	}
	q := u.Query()
	for _, name := range secretParams {
		if q.Has(name) {
			q.Set(name, "REDACTED")
		}
	}
	u.RawQuery = q.Encode()
	return &url.Error{Op: urlErr.Op, URL: u.String(), Err: urlErr.Err}
}
