// internal/services/weather_service.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/farmlink/backend/internal/config"
)

var ErrLocationNotFound = errors.New("location not found")

// WeatherService proxies Open-Meteo: a geocoding call resolves the location
// name to coordinates, then the forecast endpoint supplies current conditions.
// Neither endpoint needs an API key.
type WeatherService struct {
	cfg    *config.Config
	client *http.Client
}

type WeatherReport struct {
	Location    string  `json:"location"`
	Country     string  `json:"country,omitempty"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Temperature float64 `json:"temperature"`
	WindSpeed   float64 `json:"windSpeed"`
	WeatherCode int     `json:"weatherCode"`
	Description string  `json:"description"`
	FetchedAt   string  `json:"fetchedAt"`
}

type geocodeResponse struct {
	Results []struct {
		Name      string  `json:"name"`
		Country   string  `json:"country"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"results"`
}

type forecastResponse struct {
	CurrentWeather struct {
		Temperature float64 `json:"temperature"`
		WindSpeed   float64 `json:"windspeed"`
		WeatherCode int     `json:"weathercode"`
	} `json:"current_weather"`
}

// weatherDescriptions maps WMO interpretation codes to display strings.
var weatherDescriptions = map[int]string{
	0:  "Clear sky",
	1:  "Mainly clear",
	2:  "Partly cloudy",
	3:  "Overcast",
	45: "Fog",
	48: "Depositing rime fog",
	51: "Light drizzle",
	53: "Moderate drizzle",
	55: "Dense drizzle",
	61: "Slight rain",
	63: "Moderate rain",
	65: "Heavy rain",
	71: "Slight snow",
	73: "Moderate snow",
	75: "Heavy snow",
	80: "Slight rain showers",
	81: "Moderate rain showers",
	82: "Violent rain showers",
	95: "Thunderstorm",
	96: "Thunderstorm with slight hail",
	99: "Thunderstorm with heavy hail",
}

func NewWeatherService(cfg *config.Config) *WeatherService {
	return &WeatherService{
		cfg: cfg,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// GetCurrentWeather resolves location to coordinates and returns the current
// conditions there. An empty location falls back to the configured default.
func (s *WeatherService) GetCurrentWeather(ctx context.Context, location string) (*WeatherReport, error) {
	if location == "" {
		location = s.cfg.Weather.DefaultLocation
	}

	lat, lon, resolvedName, country, err := s.geocode(ctx, location)
	if err != nil {
		return nil, err
	}

	forecast, err := s.forecast(ctx, lat, lon)
	if err != nil {
		return nil, err
	}

	description, ok := weatherDescriptions[forecast.CurrentWeather.WeatherCode]
	if !ok {
		description = "Unknown conditions"
	}

	return &WeatherReport{
		Location:    resolvedName,
		Country:     country,
		Latitude:    lat,
		Longitude:   lon,
		Temperature: forecast.CurrentWeather.Temperature,
		WindSpeed:   forecast.CurrentWeather.WindSpeed,
		WeatherCode: forecast.CurrentWeather.WeatherCode,
		Description: description,
		FetchedAt:   time.Now().UTC().Format(time.RFC3339),
	}, nil
}

func (s *WeatherService) geocode(ctx context.Context, location string) (lat, lon float64, name, country string, err error) {
	endpoint := fmt.Sprintf("%s/v1/search?name=%s&count=1", s.cfg.Weather.GeocodeURL, url.QueryEscape(location))

	var resp geocodeResponse
	if err := s.getJSON(ctx, endpoint, &resp); err != nil {
		return 0, 0, "", "", fmt.Errorf("geocode %q: %w", location, err)
	}
	if len(resp.Results) == 0 {
		return 0, 0, "", "", fmt.Errorf("%w: %s", ErrLocationNotFound, location)
	}

	r := resp.Results[0]
	return r.Latitude, r.Longitude, r.Name, r.Country, nil
}

func (s *WeatherService) forecast(ctx context.Context, lat, lon float64) (*forecastResponse, error) {
	endpoint := fmt.Sprintf("%s/v1/forecast?latitude=%f&longitude=%f&current_weather=true", s.cfg.Weather.BaseURL, lat, lon)

	var resp forecastResponse
	if err := s.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("fetch forecast: %w", err)
	}
	return &resp, nil
}

func (s *WeatherService) getJSON(ctx context.Context, endpoint string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("upstream returned status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(dest)
}
