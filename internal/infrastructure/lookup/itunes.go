package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"

	"PodcastPoster/internal/domain"
	"PodcastPoster/internal/ports"
)

const (
	userAgent        = "PodcastPoster/1.0"
	defaultPageLimit = 200
	retryBaseDelay   = 1 * time.Second
	retryMaxDelay    = 2500 * time.Millisecond
	maxRetries       = 2
)

// Client queries the iTunes-style episode directory for a program's
// episodes. The lookup is idempotent, so transient failures are retried a
// couple of times with backoff before the caller treats the attempt as
// "no match".
type Client struct {
	baseURL   string
	pageLimit int
	http      *http.Client
	executor  failsafe.Executor[*http.Response]
	logger    *slog.Logger
}

var _ ports.DirectoryLookup = (*Client)(nil)

// NewClient wires a directory client; a nil http client gets a 20s timeout.
func NewClient(baseURL string, pageLimit int, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 20 * time.Second}
	}
	if pageLimit <= 0 {
		pageLimit = defaultPageLimit
	}

	retry := retrypolicy.NewBuilder[*http.Response]().
		WithBackoff(retryBaseDelay, retryMaxDelay).
		WithMaxRetries(maxRetries).
		HandleIf(func(resp *http.Response, err error) bool {
			if err != nil {
				return true
			}
			return resp != nil && resp.StatusCode >= http.StatusInternalServerError
		}).
		Build()

	return &Client{
		baseURL:   baseURL,
		pageLimit: pageLimit,
		http:      httpClient,
		executor:  failsafe.With(retry),
		logger:    logger,
	}
}

type lookupResponse struct {
	Results []lookupResult `json:"results"`
}

type lookupResult struct {
	WrapperType  string `json:"wrapperType"`
	TrackName    string `json:"trackName"`
	EpisodeGUID  string `json:"episodeGuid"`
	ReleaseDate  string `json:"releaseDate"`
	TrackViewURL string `json:"trackViewUrl"`
}

// Episodes fetches the bounded episode listing for a program in the given
// country and converts episode-type records into directory items.
func (c *Client) Episodes(ctx context.Context, programID, country string) ([]domain.DirectoryItem, error) {
	endpoint, err := c.lookupURL(programID, country)
	if err != nil {
		return nil, err
	}

	resp, err := c.executor.WithContext(ctx).Get(func() (*http.Response, error) {
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if reqErr != nil {
			return nil, reqErr
		}
		req.Header.Set("User-Agent", userAgent)
		return c.http.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("directory lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("directory lookup returned %s", resp.Status)
	}

	var payload lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode directory listing: %w", err)
	}

	items := make([]domain.DirectoryItem, 0, len(payload.Results))
	for _, result := range payload.Results {
		if result.WrapperType != "podcastEpisode" {
			continue
		}
		item := domain.DirectoryItem{
			Name: result.TrackName,
			GUID: result.EpisodeGUID,
			URL:  result.TrackViewURL,
		}
		if released, parseErr := time.Parse(time.RFC3339, result.ReleaseDate); parseErr == nil {
			item.ReleasedAt = released.UTC()
			item.HasReleased = true
		}
		items = append(items, item)
	}

	if c.logger != nil {
		c.logger.Debug("directory listing fetched", "program", programID, "episodes", len(items))
	}
	return items, nil
}

func (c *Client) lookupURL(programID, country string) (string, error) {
	parsed, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid directory base url %s: %w", c.baseURL, err)
	}
	parsed = parsed.JoinPath("lookup")

	query := parsed.Query()
	query.Set("id", programID)
	query.Set("entity", "podcastEpisode")
	query.Set("limit", strconv.Itoa(c.pageLimit))
	query.Set("country", country)
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}
