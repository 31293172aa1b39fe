package cloudflare

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"DnsBot/internal/config"
	"DnsBot/internal/lib/sl"
)

const (
	// Cloudflare allows 1200 requests per five minutes per user.
	requestsPerSecond = 4
	requestBurst      = 8
	recordsPerPage    = 100
	zonesPerPage      = 50
)

// Service talks to the Cloudflare v4 REST API with an API token.
type Service struct {
	apiToken  string
	accountID string
	baseUrl   string
	client    *http.Client
	limiter   *rate.Limiter
	log       *slog.Logger
}

func NewCloudflareService(conf *config.Config, logger *slog.Logger) *Service {
	return New(conf.Cloudflare.BaseURL, conf.Cloudflare.ApiToken, conf.Cloudflare.AccountID, conf.Cloudflare.Timeout, logger)
}

func New(baseUrl, apiToken, accountID string, timeout time.Duration, logger *slog.Logger) *Service {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Service{
		apiToken:  apiToken,
		accountID: accountID,
		baseUrl:   strings.TrimRight(baseUrl, "/"),
		client:    &http.Client{Timeout: timeout},
		limiter:   rate.NewLimiter(rate.Limit(requestsPerSecond), requestBurst),
		log:       logger.With(sl.Module("cloudflare")),
	}
}

type apiMessage struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type resultInfo struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalPages int `json:"total_pages"`
	Count      int `json:"count"`
	TotalCount int `json:"total_count"`
}

type envelope struct {
	Success    bool            `json:"success"`
	Errors     []apiMessage    `json:"errors"`
	Messages   []apiMessage    `json:"messages"`
	Result     json.RawMessage `json:"result"`
	ResultInfo *resultInfo     `json:"result_info,omitempty"`
}

// APIError is a request Cloudflare answered with success=false or a non-2xx
// status.
type APIError struct {
	Status   int
	Messages []apiMessage
}

func (e *APIError) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("cloudflare: status %d", e.Status)
	}
	parts := make([]string, 0, len(e.Messages))
	for _, m := range e.Messages {
		parts = append(parts, fmt.Sprintf("%s (%d)", m.Message, m.Code))
	}
	return "cloudflare: " + strings.Join(parts, "; ")
}

// HasCode reports whether Cloudflare returned the given error code.
func (e *APIError) HasCode(code int) bool {
	for _, m := range e.Messages {
		if m.Code == code {
			return true
		}
	}
	return false
}

// doRequest sends one API call and decodes the envelope result into out.
func (s *Service) doRequest(ctx context.Context, method, path string, query url.Values, body, out any) (info *resultInfo, err error) {
	if err = s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	fullURL := s.baseUrl + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiToken)
	req.Header.Set("Content-Type", "application/json")

	log := s.log.With(
		slog.String("method", method),
		slog.String("path", path),
	)
	t := time.Now()
	defer func() {
		log = log.With(slog.Duration("duration", time.Since(t)))
		if err != nil {
			log.Debug("cloudflare request", sl.Err(err))
		} else {
			log.Debug("cloudflare request")
		}
	}()

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if err = json.Unmarshal(bodyBytes, &env); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &APIError{Status: resp.StatusCode}
		}
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if !env.Success || resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Status: resp.StatusCode, Messages: env.Errors}
	}

	if out != nil && len(env.Result) > 0 {
		if err = json.Unmarshal(env.Result, out); err != nil {
			return nil, fmt.Errorf("decode result: %w", err)
		}
	}
	return env.ResultInfo, nil
}
