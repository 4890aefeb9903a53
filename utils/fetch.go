package utils

import (
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// UserAgent sent with every request; several of the official registers
// reject the default Go user agent.
const UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Fetcher wraps an HTTP client with retry, back-off and rate limiting.
// All source adapters share one Fetcher so the politeness interval applies
// across sources, not per source.
type Fetcher struct {
	client  *http.Client
	retry   *RetryConfig
	limiter *RateLimiter
	logger  *Logger
}

// NewFetcher creates a Fetcher with the given timeout (seconds), retry count,
// back-off base (milliseconds) and rate limit (milliseconds).
func NewFetcher(timeoutSec, maxRetries, backoffMs, rateLimitMs int, logger *Logger) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		retry: &RetryConfig{
			MaxAttempts: maxRetries,
			BaseDelay:   time.Duration(backoffMs) * time.Millisecond,
			Logger:      logger,
		},
		limiter: NewRateLimiter(rateLimitMs),
		logger:  logger,
	}
}

// Get fetches the URL and returns the response body. Non-2xx responses count
// as failures and are retried with exponential back-off.
func (f *Fetcher) Get(url string) ([]byte, error) {
	var body []byte

	err := f.retry.Do("GET "+url, func() error {
		f.limiter.Wait()

		req, err := http.NewRequest(http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("User-Agent", UserAgent)
		req.Header.Set("Accept", "text/html,application/xhtml+xml,text/csv,application/json,*/*")

		resp, err := f.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return fmt.Errorf("unexpected status %d", resp.StatusCode)
		}

		body, err = io.ReadAll(resp.Body)
		return err
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

// GetText fetches the URL and returns the body as a string, falling back to
// a Windows-1252 decode when the bytes are not valid UTF-8 (gov.uk CSV
// extracts are frequently Latin-encoded).
func (f *Fetcher) GetText(url string) (string, error) {
	raw, err := f.Get(url)
	if err != nil {
		return "", err
	}
	return DecodeText(raw), nil
}

// DecodeText converts raw response bytes to a UTF-8 string, decoding
// Windows-1252 when the input is not valid UTF-8.
func DecodeText(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(decoded)
}
