// Package tmdb implements the media catalog against The Movie Database HTTP API.
package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"cinevault/config"
	"cinevault/internal/domain/entity"
	domainerrors "cinevault/internal/domain/errors"
	"cinevault/internal/domain/service"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL  = "https://api.themoviedb.org/3"
	defaultLanguage = "en-US"
	defaultTimeout  = 10 * time.Second

	// TMDB allows roughly 50 req/s per IP; stay well under it.
	defaultRequestsPerSecond = 20
	defaultBurst             = 5
)

// Client is a rate-limited TMDB API client implementing service.MediaCatalog.
type Client struct {
	baseURL  string
	token    string
	language string
	http     *http.Client
	limiter  *rate.Limiter
	logger   *slog.Logger
}

// NewClient builds a Client from configuration.
func NewClient(cfg *config.Config, logger *slog.Logger) (service.MediaCatalog, error) {
	if cfg.TMDB == nil || cfg.TMDB.APIToken == "" {
		return nil, errors.New("tmdb api token must be provided")
	}

	baseURL := cfg.TMDB.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	language := cfg.TMDB.Language
	if language == "" {
		language = defaultLanguage
	}
	timeout := cfg.TMDB.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	rps := cfg.TMDB.RequestsPerSecond
	if rps <= 0 {
		rps = defaultRequestsPerSecond
	}
	burst := cfg.TMDB.Burst
	if burst <= 0 {
		burst = defaultBurst
	}

	return &Client{
		baseURL:  baseURL,
		token:    cfg.TMDB.APIToken,
		language: language,
		http:     &http.Client{Timeout: timeout},
		limiter:  rate.NewLimiter(rate.Limit(rps), burst),
		logger:   logger,
	}, nil
}

// SearchMulti queries movies, TV shows and people in one call.
func (c *Client) SearchMulti(ctx context.Context, query string, page int) (*service.MediaPage, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("include_adult", "false")
	setPage(params, page)

	var out service.MediaPage
	if err := c.get(ctx, "/search/multi", params, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// GetDetail fetches the full record for one title of the given kind.
func (c *Client) GetDetail(ctx context.Context, kind entity.MediaKind, id int64) (*service.MediaDetail, error) {
	var out service.MediaDetail
	if err := c.get(ctx, fmt.Sprintf("/%s/%d", kind, id), nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// DiscoverMovies lists movies matching the filter.
func (c *Client) DiscoverMovies(ctx context.Context, filter service.DiscoverFilter) (*service.MediaPage, error) {
	params := url.Values{}
	params.Set("include_adult", "false")
	setPage(params, filter.Page)
	if filter.SortBy != "" {
		params.Set("sort_by", filter.SortBy)
	}
	if filter.WithGenres != "" {
		params.Set("with_genres", filter.WithGenres)
	}
	if filter.Year > 0 {
		params.Set("primary_release_year", strconv.Itoa(filter.Year))
	}
	if filter.MinVoteAvg > 0 {
		params.Set("vote_average.gte", strconv.FormatFloat(filter.MinVoteAvg, 'f', -1, 64))
	}
	if filter.MinVotes > 0 {
		params.Set("vote_count.gte", strconv.Itoa(filter.MinVotes))
	}
	if filter.ReleaseGTE != "" {
		params.Set("primary_release_date.gte", filter.ReleaseGTE)
	}
	if filter.ReleaseLTE != "" {
		params.Set("primary_release_date.lte", filter.ReleaseLTE)
	}
	if filter.WithKeyword != "" {
		params.Set("with_keywords", filter.WithKeyword)
	}

	var out service.MediaPage
	if err := c.get(ctx, "/discover/movie", params, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// Trending lists titles trending over the given window ("day" or "week").
func (c *Client) Trending(ctx context.Context, kind entity.MediaKind, window string, page int) (*service.MediaPage, error) {
	if window != "day" && window != "week" {
		window = "week"
	}

	params := url.Values{}
	setPage(params, page)

	var out service.MediaPage
	if err := c.get(ctx, fmt.Sprintf("/trending/%s/%s", kind, window), params, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// GetCredits fetches cast and crew for one title.
func (c *Client) GetCredits(ctx context.Context, kind entity.MediaKind, id int64) (*service.Credits, error) {
	var out service.Credits
	if err := c.get(ctx, fmt.Sprintf("/%s/%d/credits", kind, id), nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// GetImages fetches poster and backdrop assets for one title.
func (c *Client) GetImages(ctx context.Context, kind entity.MediaKind, id int64) (*service.ImageCollection, error) {
	var out service.ImageCollection
	if err := c.get(ctx, fmt.Sprintf("/%s/%d/images", kind, id), nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// GetVideos fetches trailers and clips for one title.
func (c *Client) GetVideos(ctx context.Context, kind entity.MediaKind, id int64) (*service.VideoCollection, error) {
	var out service.VideoCollection
	if err := c.get(ctx, fmt.Sprintf("/%s/%d/videos", kind, id), nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// GetReviews fetches one page of user reviews for one title.
func (c *Client) GetReviews(ctx context.Context, kind entity.MediaKind, id int64, page int) (*service.ReviewPage, error) {
	params := url.Values{}
	setPage(params, page)

	var out service.ReviewPage
	if err := c.get(ctx, fmt.Sprintf("/%s/%d/reviews", kind, id), params, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// GetSimilar lists titles similar to the given one.
func (c *Client) GetSimilar(ctx context.Context, kind entity.MediaKind, id int64, page int) (*service.MediaPage, error) {
	params := url.Values{}
	setPage(params, page)

	var out service.MediaPage
	if err := c.get(ctx, fmt.Sprintf("/%s/%d/similar", kind, id), params, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// GetRecommendations lists titles recommended from the given one.
func (c *Client) GetRecommendations(ctx context.Context, kind entity.MediaKind, id int64, page int) (*service.MediaPage, error) {
	params := url.Values{}
	setPage(params, page)

	var out service.MediaPage
	if err := c.get(ctx, fmt.Sprintf("/%s/%d/recommendations", kind, id), params, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// get performs one rate-limited, authenticated GET and decodes the JSON body.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return errors.Wrap(err, "rate limiter wait interrupted")
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("language", c.language)

	reqURL := c.baseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return domainerrors.ErrMetadataUnavailable.WrapMessage(err.Error())
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domainerrors.ErrMediaNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		if c.logger != nil {
			c.logger.Warn("TMDB rate limit hit", slog.String("path", path))
		}

		return domainerrors.ErrMetadataUnavailable.WrapMessage("provider rate limit exceeded")
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		if c.logger != nil {
			c.logger.Error("TMDB request failed",
				slog.String("path", path),
				slog.Int("status", resp.StatusCode),
				slog.String("body", string(body)))
		}

		return domainerrors.ErrMetadataUnavailable.WrapMessage(fmt.Sprintf("provider returned status %d", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "failed to decode provider response")
	}

	return nil
}

func setPage(params url.Values, page int) {
	if page <= 0 {
		page = 1
	}
	params.Set("page", strconv.Itoa(page))
}
