// Package analyzer talks to the external analysis backend that turns an
// uploaded feedback CSV into an analysis payload.
package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const maxResponseBytes = 64 << 20

var (
	ErrBackendRejected = errors.New("analysis backend rejected upload")
	ErrInvalidResponse = errors.New("analysis backend returned an invalid response")
)

// Envelope is the success/error wrapper every backend response carries. The
// analysis sections sit beside these fields at the top level.
type Envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// Result is an accepted upload: the envelope plus the whole response body.
type Result struct {
	Envelope
	Payload []byte
}

type Options struct {
	URL        string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

type Option func(*Options)

func WithURL(url string) Option {
	return func(o *Options) { o.URL = url }
}

func WithTimeout(d time.Duration) Option {
	return func(o *Options) { o.Timeout = d }
}

func WithHTTPClient(c *http.Client) Option {
	return func(o *Options) { o.HTTPClient = c }
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

type Client struct {
	url    string
	http   *http.Client
	logger *zap.Logger
}

func New(opts ...Option) (*Client, error) {
	options := &Options{
		URL:     "http://localhost:5000/api/upload",
		Timeout: 60 * time.Second,
		Logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(options)
	}

	if options.URL == "" {
		return nil, fmt.Errorf("analyzer url cannot be empty")
	}
	if options.HTTPClient == nil {
		options.HTTPClient = &http.Client{Timeout: options.Timeout}
	}
	if options.Logger == nil {
		options.Logger = zap.NewNop()
	}

	return &Client{
		url:    options.URL,
		http:   options.HTTPClient,
		logger: options.Logger.Named("analyzer"),
	}, nil
}

// Upload posts the CSV as multipart field "file" and returns the accepted
// payload. A transport failure, a non-2xx status or success=false is an error.
func (c *Client) Upload(ctx context.Context, filename string, content []byte) (Result, error) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return Result{}, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return Result{}, fmt.Errorf("write form file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return Result{}, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, body)
	if err != nil {
		return Result{}, fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("post %s: %w", c.url, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Result{}, fmt.Errorf("read upload response: %w", err)
	}

	c.logger.Info("analysis backend responded",
		zap.String("filename", filename),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(raw)),
		zap.Duration("duration", time.Since(start)))

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return Result{}, fmt.Errorf("%w: status %d", ErrBackendRejected, resp.StatusCode)
		}
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	if resp.StatusCode >= http.StatusBadRequest || !env.Success {
		return Result{}, fmt.Errorf("%w: status %d: %s", ErrBackendRejected, resp.StatusCode, env.describe())
	}

	return Result{Envelope: env, Payload: raw}, nil
}

func (e Envelope) describe() string {
	switch {
	case e.Error != "" && e.Message != "":
		return e.Error + ": " + e.Message
	case e.Error != "":
		return e.Error
	case e.Message != "":
		return e.Message
	}
	return "unknown error"
}
