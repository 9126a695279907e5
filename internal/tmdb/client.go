package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Clark-Hu/cinelist/internal/cache"
	"github.com/Clark-Hu/cinelist/internal/domain"
)

// DefaultBaseURL is the public v3 API root.
const DefaultBaseURL = "https://api.themoviedb.org/3"

const maxResponseBody = 4 << 20 // 4 MiB

// ErrResponseTooLarge is wrapped when a provider body exceeds the read limit.
var ErrResponseTooLarge = errors.New("tmdb: response too large")

// Client defines the contract for querying the metadata provider.
type Client interface {
	FetchPage(ctx context.Context, page int) (*TopRatedResponse, error)
	FetchDetail(ctx context.Context, id int) (*MovieDetailsResponse, error)
}

// Options configures an HTTPClient.
type Options struct {
	BaseURL      string
	ImageBaseURL string
	Token        string
	Timeout      time.Duration
	Cache        cache.Options
	Logger       zerolog.Logger
	// Transport overrides the tuned default; tests inject httptest transports.
	Transport http.RoundTripper
}

// HTTPClient implements Client over HTTP with a stale-while-revalidate
// response cache in front of the network.
type HTTPClient struct {
	baseURL   *url.URL
	imageBase string
	token     string
	client    *http.Client
	bodies    *cache.Cache[string, []byte]
	logger    zerolog.Logger
}

// NewHTTPClient constructs a new HTTP-backed provider client.
func NewHTTPClient(opts Options) (*HTTPClient, error) {
	if opts.Token == "" {
		return nil, fmt.Errorf("tmdb: bearer token is required")
	}
	base := opts.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	parsed, err := url.Parse(strings.TrimRight(base, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse tmdb url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("parse tmdb url: %q is not absolute", base)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	transport := opts.Transport
	if transport == nil {
		transport = &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   timeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   timeout,
			ResponseHeaderTimeout: timeout,
			ExpectContinueTimeout: 1 * time.Second,
			MaxIdleConnsPerHost:   8,
		}
	}
	cacheOpts := opts.Cache
	cacheOpts.Logger = opts.Logger
	imageBase := opts.ImageBaseURL
	if imageBase == "" {
		imageBase = DefaultImageBaseURL
	}
	return &HTTPClient{
		baseURL:   parsed,
		imageBase: imageBase,
		token:     opts.Token,
		client:    &http.Client{Timeout: timeout, Transport: transport},
		bodies:    cache.New[string, []byte](cacheOpts),
		logger:    opts.Logger,
	}, nil
}

// FetchPage retrieves one page of the top rated listing.
func (c *HTTPClient) FetchPage(ctx context.Context, page int) (*TopRatedResponse, error) {
	if page < domain.MinPage || page > domain.MaxPage {
		return nil, domain.NewValidationError("page", "Page must be between 1 and 1000")
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	body, err := c.get(ctx, []string{"movie", "top_rated"}, q)
	if err != nil {
		return nil, err
	}
	var payload TopRatedResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode top rated response: %w", err)
	}
	return &payload, nil
}

// FetchDetail retrieves the full record for one movie.
func (c *HTTPClient) FetchDetail(ctx context.Context, id int) (*MovieDetailsResponse, error) {
	if id <= 0 {
		return nil, domain.NewValidationError("movie id", "Movie ID must be a positive integer")
	}
	body, err := c.get(ctx, []string{"movie", strconv.Itoa(id)}, nil)
	if err != nil {
		return nil, err
	}
	var payload MovieDetailsResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode movie details response: %w", err)
	}
	return &payload, nil
}

// AssetURL builds an image URL against the configured image host.
func (c *HTTPClient) AssetURL(path *string, size string) *string {
	return BuildAssetURL(c.imageBase, path, size)
}

func (c *HTTPClient) get(ctx context.Context, segments []string, query url.Values) ([]byte, error) {
	endpoint := c.baseURL.JoinPath(segments...)
	if query != nil {
		endpoint.RawQuery = query.Encode()
	}
	key := endpoint.String()
	body, err := c.bodies.Get(ctx, key, func(ctx context.Context) ([]byte, error) {
		return c.do(ctx, key)
	})
	if err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return nil, &domain.TransportError{Op: "GET " + endpoint.Path, Err: err}
	}
	return body, err
}

func (c *HTTPClient) do(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("endpoint", endpoint).Msg("tmdb: request failed")
		return nil, &domain.TransportError{Op: "GET " + req.URL.Path, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody+1))
	if err != nil {
		return nil, &domain.TransportError{Op: "read " + req.URL.Path, Err: err}
	}
	if len(body) > maxResponseBody {
		c.logger.Error().Str("endpoint", req.URL.Path).Int("limit", maxResponseBody).Msg("tmdb: response too large")
		return nil, &domain.TransportError{Op: "read " + req.URL.Path, Err: ErrResponseTooLarge}
	}
	c.logger.Debug().
		Str("endpoint", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("tmdb: response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		perr := providerError(resp, body)
		c.logger.Warn().Int("status", resp.StatusCode).Str("endpoint", req.URL.Path).Msg(perr.Message)
		return nil, perr
	}
	return body, nil
}

func providerError(resp *http.Response, body []byte) *domain.ProviderError {
	message := http.StatusText(resp.StatusCode)
	var payload apiError
	if err := json.Unmarshal(body, &payload); err == nil && payload.StatusMessage != "" {
		message = payload.StatusMessage
	}
	return &domain.ProviderError{StatusCode: resp.StatusCode, Message: message}
}
