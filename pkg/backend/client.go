// Package backend is the typed client for the demanda API. One Client
// instance serves all endpoint groups; callers choose behavior per call, the
// client owns timeouts, auth, retry and circuit breaking.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// Interactive calls: session bookkeeping, listings, short reads.
	DefaultShortTimeout = 45 * time.Second
	// Generation-backed calls: message send, edit commands, imports,
	// transcription. The server may hold the request for minutes.
	DefaultLongTimeout = 180 * time.Second

	defaultTranscribePath = "/api/audio/transcribir"
)

// TokenSource supplies the bearer token attached to every request.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken adapts a fixed token string to TokenSource.
type StaticToken string

func (s StaticToken) Token(context.Context) (string, error) { return string(s), nil }

var _ TokenSource = StaticToken("")

type Config struct {
	BaseURL      string
	ShortTimeout time.Duration
	LongTimeout  time.Duration
	// MaxRetries caps the attempts on idempotent reads. Zero keeps the
	// default of 3; mutations are never retried regardless.
	MaxRetries int
	// TranscribePath overrides the default transcription endpoint when the
	// deployment routes audio through an alternate service.
	TranscribePath string
}

type Client struct {
	baseURL        string
	tokens         TokenSource
	short          *http.Client
	long           *http.Client
	breaker        *gobreaker.CircuitBreaker
	retry          retryConfig
	tracer         trace.Tracer
	transcribePath string
}

func NewClient(cfg Config, tokens TokenSource) *Client {
	if cfg.ShortTimeout <= 0 {
		cfg.ShortTimeout = DefaultShortTimeout
	}
	if cfg.LongTimeout <= 0 {
		cfg.LongTimeout = DefaultLongTimeout
	}
	if cfg.TranscribePath == "" {
		cfg.TranscribePath = defaultTranscribePath
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "backend-api",
		MaxRequests: 5,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// Only trip once there is enough traffic to judge.
			if counts.Requests < 5 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.8
		},
		IsSuccessful: func(err error) bool {
			// 4xx means the request was wrong, not the backend down.
			return err == nil || IsClientError(err)
		},
	})

	retry := defaultRetryConfig()
	if cfg.MaxRetries > 0 {
		retry.maxAttempts = cfg.MaxRetries
	}

	return &Client{
		baseURL:        cfg.BaseURL,
		tokens:         tokens,
		short:          &http.Client{Timeout: cfg.ShortTimeout},
		long:           &http.Client{Timeout: cfg.LongTimeout},
		breaker:        cb,
		retry:          retry,
		tracer:         otel.Tracer("litigium/backend"),
		transcribePath: cfg.TranscribePath,
	}
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string { return c.baseURL }

// do executes one HTTP round trip through the circuit breaker and returns
// the raw body. Transport failures come back as *RequestError, non-2xx
// responses as *StatusError, an open breaker as ErrUnavailable.
func (c *Client) do(ctx context.Context, hc *http.Client, method, path string, body []byte, contentType string) ([]byte, http.Header, error) {
	url := c.baseURL + path

	ctx, span := c.tracer.Start(ctx, method+" "+path, trace.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("url.path", path),
	))
	defer span.End()

	token, err := c.tokens.Token(ctx)
	if err != nil {
		err = fmt.Errorf("resolve token: %w", err)
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, err
	}

	var header http.Header
	res, err := c.breaker.Execute(func() (interface{}, error) {
		var reader io.Reader
		if len(body) > 0 {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return nil, &RequestError{Op: "build request", URL: url, Err: err}
		}
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := hc.Do(req)
		if err != nil {
			return nil, &RequestError{Op: method, URL: url, Err: err}
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, &RequestError{Op: "read response", URL: url, Err: err}
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, &StatusError{StatusCode: resp.StatusCode, URL: url, Body: truncateBody(data)}
		}
		header = resp.Header
		span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
		return data, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = fmt.Errorf("%s: %w", url, ErrUnavailable)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, err
	}
	return res.([]byte), header, nil
}

// doJSON runs one JSON round trip: marshal in, detect success=false
// envelopes, decode into out.
func (c *Client) doJSON(ctx context.Context, hc *http.Client, method, path string, in, out interface{}) error {
	var payload []byte
	if in != nil {
		var err error
		payload, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
	}

	data, _, err := c.do(ctx, hc, method, path, payload, "application/json")
	if err != nil {
		return err
	}
	if err := checkEnvelope(c.baseURL+path, data); err != nil {
		return err
	}
	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}

// getJSON is the retried read path: idempotent by construction, so
// transient failures are worth another attempt.
func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	return withRetry(ctx, c.retry, func() error {
		return c.doJSON(ctx, c.short, http.MethodGet, path, nil, out)
	})
}

func (c *Client) postShort(ctx context.Context, path string, in, out interface{}) error {
	return c.doJSON(ctx, c.short, http.MethodPost, path, in, out)
}

func (c *Client) postLong(ctx context.Context, path string, in, out interface{}) error {
	return c.doJSON(ctx, c.long, http.MethodPost, path, in, out)
}

func (c *Client) putShort(ctx context.Context, path string, in, out interface{}) error {
	return c.doJSON(ctx, c.short, http.MethodPut, path, in, out)
}

func (c *Client) deleteShort(ctx context.Context, path string, in, out interface{}) error {
	return c.doJSON(ctx, c.short, http.MethodDelete, path, in, out)
}

// postMultipart ships a multipart form on the long client. build writes the
// form fields and file parts.
func (c *Client) postMultipart(ctx context.Context, path string, build func(*multipart.Writer) error, out interface{}) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := build(w); err != nil {
		return fmt.Errorf("build multipart form: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close multipart form: %w", err)
	}

	data, _, err := c.do(ctx, c.long, http.MethodPost, path, buf.Bytes(), w.FormDataContentType())
	if err != nil {
		return err
	}
	if err := checkEnvelope(c.baseURL+path, data); err != nil {
		return err
	}
	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}

// Download is a binary payload plus the filename the server suggested.
type Download struct {
	Filename string
	Data     []byte
}

func (c *Client) downloadBlob(ctx context.Context, path, fallbackName string) (*Download, error) {
	var dl *Download
	err := withRetry(ctx, c.retry, func() error {
		data, header, err := c.do(ctx, c.long, http.MethodGet, path, nil, "")
		if err != nil {
			return err
		}
		name := fallbackName
		if cd := header.Get("Content-Disposition"); cd != "" {
			if _, params, perr := mime.ParseMediaType(cd); perr == nil && params["filename"] != "" {
				name = params["filename"]
			}
		}
		dl = &Download{Filename: name, Data: data}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dl, nil
}

// envelope is the minimal shape shared by every JSON response. Success is a
// pointer so endpoints without the flag (binary metadata, raw lists) pass
// through untouched.
type envelope struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
	Detail  string `json:"detail"`
}

func checkEnvelope(url string, data []byte) error {
	var env envelope
	if len(data) == 0 || json.Unmarshal(data, &env) != nil {
		return nil
	}
	if env.Success != nil && !*env.Success {
		msg := env.Error
		if msg == "" {
			msg = env.Message
		}
		if msg == "" {
			msg = env.Detail
		}
		return &OperationError{URL: url, Message: msg}
	}
	return nil
}

func truncateBody(data []byte) string {
	const max = 2048
	if len(data) > max {
		return string(data[:max]) + "..."
	}
	return string(data)
}
