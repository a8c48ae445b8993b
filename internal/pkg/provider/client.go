package provider

import (
	"ReaView/internal/api/config"
	"ReaView/internal/model"
	"ReaView/internal/pkg/logger"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

var ErrNotFound = errors.New("provider: no match")

// Metadata 外部来源返回的条目信息
type Metadata struct {
	Title          string  `json:"title"`
	PosterURL      string  `json:"poster_url"`
	ExternalID     string  `json:"external_id"`
	ExternalSource string  `json:"external_source"`
	Rating         float64 `json:"rating"`
}

// Query 优先按外部 ID 查详情，否则按标题检索取第一条
type Query struct {
	ItemType       string
	ExternalID     string
	ExternalSource string
	Title          string
}

type MetadataProvider interface {
	Lookup(ctx context.Context, q Query) (*Metadata, error)
}

type Client struct {
	cfg     config.ProviderConfig
	tmdb    *resty.Client
	books   *resty.Client
	openlib *resty.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[*Metadata]
}

func NewClient(cfg config.ProviderConfig) *Client {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	newResty := func(name, baseURL string) *resty.Client {
		return resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetRetryCount(0).
			SetTransport(logger.NewHTTPTransport(name, http.DefaultTransport))
	}

	limit := rate.Limit(cfg.RateLimit)
	if cfg.RateLimit <= 0 {
		limit = rate.Inf
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 1
	}

	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	settings := gobreaker.Settings{
		Name:        "metadata-provider",
		MaxRequests: 1,
		Timeout:     time.Duration(cfg.BreakerTimeout) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound)
		},
		// 调用方取消或超出动态流补全时限，与上游健康无关，不计入熔断
		IsExcluded: func(err error) bool {
			return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("provider circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	}

	return &Client{
		cfg:     cfg,
		tmdb:    newResty(model.SourceTMDB, cfg.TMDBBaseURL),
		books:   newResty(model.SourceGoogleBooks, cfg.GoogleBooksURL),
		openlib: newResty(model.SourceOpenLibrary, cfg.OpenLibraryURL),
		limiter: rate.NewLimiter(limit, burst),
		breaker: gobreaker.NewCircuitBreaker[*Metadata](settings),
	}
}

// Lookup 受限流与熔断保护，不做重试
func (c *Client) Lookup(ctx context.Context, q Query) (*Metadata, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return c.breaker.Execute(func() (*Metadata, error) {
		return c.lookup(ctx, q)
	})
}

func (c *Client) lookup(ctx context.Context, q Query) (*Metadata, error) {
	itemType := q.ItemType
	if itemType == "" {
		switch q.ExternalSource {
		case model.SourceTMDB:
			itemType = model.ItemTypeMovie
		case model.SourceGoogleBooks, model.SourceOpenLibrary:
			itemType = model.ItemTypeBook
		}
	}

	switch itemType {
	case model.ItemTypeMovie:
		if q.ExternalID != "" && (q.ExternalSource == "" || q.ExternalSource == model.SourceTMDB) {
			md, err := c.movieDetail(ctx, q.ExternalID)
			if err == nil {
				return md, nil
			}
			if !errors.Is(err, ErrNotFound) {
				return nil, err
			}
		}
		if q.Title != "" {
			return c.searchMovie(ctx, q.Title)
		}
	case model.ItemTypeBook:
		if q.ExternalID != "" && (q.ExternalSource == "" || q.ExternalSource == model.SourceGoogleBooks) {
			md, err := c.bookDetail(ctx, q.ExternalID)
			if err == nil {
				return md, nil
			}
			if !errors.Is(err, ErrNotFound) {
				return nil, err
			}
		}
		if q.Title != "" {
			md, err := c.searchBook(ctx, q.Title)
			if err == nil {
				return md, nil
			}
			log.DebugContext(ctx, "google books search missed, fallback to openlibrary", "title", q.Title, "err", err)
			return c.searchOpenLibrary(ctx, q.Title)
		}
	}
	return nil, ErrNotFound
}

func (c *Client) get(ctx context.Context, client *resty.Client, path string, params map[string]string) ([]byte, error) {
	resp, err := client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(path)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.IsError() {
		return nil, fmt.Errorf("provider %s: unexpected status %d", path, resp.StatusCode())
	}
	return resp.Body(), nil
}

func (c *Client) tmdbParams(extra map[string]string) map[string]string {
	params := map[string]string{}
	if c.cfg.TMDBApiKey != "" {
		params["api_key"] = c.cfg.TMDBApiKey
	}
	for k, v := range extra {
		params[k] = v
	}
	return params
}

func (c *Client) movieDetail(ctx context.Context, id string) (*Metadata, error) {
	body, err := c.get(ctx, c.tmdb, "/movie/"+id, c.tmdbParams(nil))
	if err != nil {
		return nil, err
	}
	return c.parseMovie(gjson.ParseBytes(body))
}

func (c *Client) searchMovie(ctx context.Context, title string) (*Metadata, error) {
	body, err := c.get(ctx, c.tmdb, "/search/movie", c.tmdbParams(map[string]string{"query": title}))
	if err != nil {
		return nil, err
	}
	first := gjson.GetBytes(body, "results.0")
	if !first.Exists() {
		return nil, ErrNotFound
	}
	return c.parseMovie(first)
}

func (c *Client) parseMovie(m gjson.Result) (*Metadata, error) {
	md := &Metadata{
		Title:          m.Get("title").String(),
		ExternalID:     m.Get("id").String(),
		ExternalSource: model.SourceTMDB,
		Rating:         m.Get("vote_average").Float(),
	}
	if path := m.Get("poster_path").String(); path != "" {
		md.PosterURL = strings.TrimRight(c.cfg.TMDBImageURL, "/") + path
	}
	if md.PosterURL == "" {
		return nil, ErrNotFound
	}
	return md, nil
}

func (c *Client) bookDetail(ctx context.Context, volumeID string) (*Metadata, error) {
	body, err := c.get(ctx, c.books, "/volumes/"+volumeID, nil)
	if err != nil {
		return nil, err
	}
	return parseVolume(gjson.ParseBytes(body))
}

func (c *Client) searchBook(ctx context.Context, title string) (*Metadata, error) {
	body, err := c.get(ctx, c.books, "/volumes", map[string]string{"q": title, "maxResults": "5"})
	if err != nil {
		return nil, err
	}
	for _, v := range gjson.GetBytes(body, "items").Array() {
		if md, err := parseVolume(v); err == nil {
			return md, nil
		}
	}
	return nil, ErrNotFound
}

// parseVolume Google Books 评分为 0-5，换算到 0-10
func parseVolume(v gjson.Result) (*Metadata, error) {
	info := v.Get("volumeInfo")
	thumb := info.Get("imageLinks.thumbnail").String()
	if thumb == "" {
		thumb = info.Get("imageLinks.smallThumbnail").String()
	}
	if thumb == "" {
		return nil, ErrNotFound
	}
	return &Metadata{
		Title:          info.Get("title").String(),
		PosterURL:      strings.Replace(thumb, "http://", "https://", 1),
		ExternalID:     v.Get("id").String(),
		ExternalSource: model.SourceGoogleBooks,
		Rating:         info.Get("averageRating").Float() * 2,
	}, nil
}

func (c *Client) searchOpenLibrary(ctx context.Context, title string) (*Metadata, error) {
	body, err := c.get(ctx, c.openlib, "/search.json", map[string]string{"q": title, "limit": "5"})
	if err != nil {
		return nil, err
	}
	for _, doc := range gjson.GetBytes(body, "docs").Array() {
		coverID := doc.Get("cover_i").Int()
		if coverID == 0 {
			continue
		}
		return &Metadata{
			Title:          doc.Get("title").String(),
			PosterURL:      fmt.Sprintf("%s/%d-L.jpg", strings.TrimRight(c.cfg.OpenLibraryCover, "/"), coverID),
			ExternalID:     doc.Get("key").String(),
			ExternalSource: model.SourceOpenLibrary,
			Rating:         doc.Get("ratings_average").Float() * 2,
		}, nil
	}
	return nil, ErrNotFound
}
