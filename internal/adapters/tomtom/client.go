package tomtom

import (
	"errors"
	"mobility-route-service/internal/ports"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	APIKey      string
	BaseURL     string
	Timeout     time.Duration
	MaxAttempts int
	// CountrySet biases geocoding and POI search, e.g. "IN".
	CountrySet string

	GeocodeCache ports.GeocodeCache
	POICache     ports.POICache
	Logger       *zap.Logger
}

// Client implements the routing, geocoding, traffic flow, incident and POI
// search ports against the TomTom APIs.
//
// Routing requests are attempted once. Lookups are retried on transient
// failures with exponential backoff. The client is safe for concurrent use.
type Client struct {
	session     *http.Client
	apiKey      string
	baseURL     string
	maxAttempts int
	countrySet  string
	backoff     time.Duration

	geocodeCache ports.GeocodeCache
	poiCache     ports.POICache
	log          *zap.Logger
}

var (
	_ ports.RouteProvider       = (*Client)(nil)
	_ ports.Geocoder            = (*Client)(nil)
	_ ports.TrafficFlowProvider = (*Client)(nil)
	_ ports.IncidentProvider    = (*Client)(nil)
	_ ports.POISearcher         = (*Client)(nil)
)

func NewClient(opts Options) (*Client, error) {
	if opts.APIKey == "" {
		return nil, errors.New("tomtom api key is empty")
	}

	c := &Client{
		session:      &http.Client{Timeout: 8 * time.Second},
		apiKey:       opts.APIKey,
		baseURL:      "https://api.tomtom.com",
		maxAttempts:  3,
		countrySet:   opts.CountrySet,
		backoff:      200 * time.Millisecond,
		geocodeCache: opts.GeocodeCache,
		poiCache:     opts.POICache,
		log:          opts.Logger,
	}
	if opts.BaseURL != "" {
		c.baseURL = strings.TrimRight(opts.BaseURL, "/")
	}
	if opts.Timeout > 0 {
		c.session.Timeout = opts.Timeout
	}
	if opts.MaxAttempts > 0 {
		c.maxAttempts = opts.MaxAttempts
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}

	return c, nil
}
