// Package x submits composed posts to the microblogging platform's v2 API
// using OAuth1 user-context signing.
package x

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"PodcastPoster/internal/ports"
)

const (
	defaultEndpoint = "https://api.x.com/2/tweets"
	userAgent       = "PodcastPoster/1.0"
)

// Credentials carries the four OAuth1 user-context secrets.
type Credentials struct {
	APIKey       string
	APISecret    string
	AccessToken  string
	AccessSecret string
}

// Valid reports whether every secret is present.
func (c Credentials) Valid() bool {
	return c.APIKey != "" && c.APISecret != "" && c.AccessToken != "" && c.AccessSecret != ""
}

// Client posts text to the platform. One attempt per call; the pipeline
// decides whether and when to retry on a later run.
type Client struct {
	endpoint string
	creds    Credentials
	http     *http.Client
	dryRun   bool
	logger   *slog.Logger

	now   func() time.Time
	nonce func() string
}

var _ ports.Publisher = (*Client)(nil)

// Option configures the client.
type Option func(*Client)

// WithEndpoint overrides the API endpoint (used by tests).
func WithEndpoint(endpoint string) Option {
	return func(c *Client) { c.endpoint = endpoint }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.http = httpClient }
}

// WithDryRun logs the post instead of submitting it.
func WithDryRun(dryRun bool) Option {
	return func(c *Client) { c.dryRun = dryRun }
}

// NewClient builds a submission client from credentials.
func NewClient(creds Credentials, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		endpoint: defaultEndpoint,
		creds:    creds,
		http:     &http.Client{Timeout: 20 * time.Second},
		logger:   logger,
		now:      time.Now,
		nonce:    randomNonce,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type postResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// Publish submits the text and returns the platform's post id on success.
func (c *Client) Publish(ctx context.Context, text string) (string, error) {
	if !c.creds.Valid() {
		return "", fmt.Errorf("submission credentials are not configured")
	}

	if c.dryRun {
		if c.logger != nil {
			c.logger.Info("dry run, post not submitted", "text", text)
		}
		return "dry-run", nil
	}

	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return "", fmt.Errorf("marshal post payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Authorization", c.authorizationHeader(http.MethodPost, c.endpoint))

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("submit post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("platform rejected post (%s): %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var decoded postResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode post response: %w", err)
	}
	return decoded.Data.ID, nil
}

// authorizationHeader builds the OAuth1 HMAC-SHA1 header. The JSON body
// carries no form parameters, so only the oauth_* parameters enter the
// signature base string.
func (c *Client) authorizationHeader(method, endpoint string) string {
	params := map[string]string{
		"oauth_consumer_key":     c.creds.APIKey,
		"oauth_nonce":            c.nonce(),
		"oauth_signature_method": "HMAC-SHA1",
		"oauth_timestamp":        strconv.FormatInt(c.now().Unix(), 10),
		"oauth_token":            c.creds.AccessToken,
		"oauth_version":          "1.0",
	}
	params["oauth_signature"] = c.sign(method, endpoint, params)

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%q", percentEncode(k), percentEncode(params[k])))
	}
	return "OAuth " + strings.Join(pairs, ", ")
}

func (c *Client) sign(method, endpoint string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	encoded := make([]string, 0, len(keys))
	for _, k := range keys {
		encoded = append(encoded, percentEncode(k)+"="+percentEncode(params[k]))
	}

	base := strings.Join([]string{
		method,
		percentEncode(endpoint),
		percentEncode(strings.Join(encoded, "&")),
	}, "&")

	key := percentEncode(c.creds.APISecret) + "&" + percentEncode(c.creds.AccessSecret)
	mac := hmac.New(sha1.New, []byte(key))
	mac.Write([]byte(base))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// percentEncode applies the RFC 3986 encoding OAuth1 requires; only
// unreserved characters stay literal.
func percentEncode(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch >= 'A' && ch <= 'Z', ch >= 'a' && ch <= 'z', ch >= '0' && ch <= '9',
			ch == '-', ch == '.', ch == '_', ch == '~':
			b.WriteByte(ch)
		default:
			fmt.Fprintf(&b, "%%%02X", ch)
		}
	}
	return b.String()
}

func randomNonce() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return strconv.FormatInt(time.Now().UnixNano(), 16)
	}
	return hex.EncodeToString(buf)
}
