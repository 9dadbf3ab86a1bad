package typocheck

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"
)

const maxErrorBody = 4 << 10

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// Client performs the upload, progress, and download calls against the
// remote service. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	logger  *slog.Logger
}

// Result is a corrected document streamed from the download endpoint.
// The caller must close Body.
type Result struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
	Filename      string
}

// New creates a Client from a finalized Config.
func New(cfg *Config, logger *slog.Logger) (*Client, error) {
	return NewWithHTTPClient(cfg, &http.Client{}, logger)
}

// NewWithHTTPClient creates a Client that sends requests through hc.
func NewWithHTTPClient(cfg *Config, hc *http.Client, logger *slog.Logger) (*Client, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url must be absolute: %s", cfg.BaseURL)
	}

	return &Client{
		baseURL: strings.TrimRight(u.String(), "/"),
		http:    hc,
		timeout: cfg.TimeoutDuration(),
		logger:  logger.With("system", "typocheck"),
	}, nil
}

// BaseURL returns the service root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Submit uploads doc as the multipart field "file".
// A non-success HTTP status returns a *TransportError; a success response
// whose status is "error" is returned as-is for the caller to interpret.
func (c *Client) Submit(ctx context.Context, doc Document) (*SubmissionResult, error) {
	const op = "submit"

	body, contentType, err := encodeMultipart(doc)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", body)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(op, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result SubmissionResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &TransportError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("decode response: %w", err),
		}
	}

	c.logger.Info(
		"document submitted",
		"filename", doc.Filename,
		"size", doc.Size(),
		"status", result.Status,
		"job_id", result.JobID,
	)

	return &result, nil
}

// Status fetches the current progress snapshot for jobID.
func (c *Client) Status(ctx context.Context, jobID string) (Snapshot, error) {
	const op = "status"

	if jobID == "" {
		return Snapshot{}, ErrMissingJobID
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.jobURL("progress", jobID), nil)
	if err != nil {
		return Snapshot{}, &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(op, req)
	if err != nil {
		return Snapshot{}, err
	}
	defer resp.Body.Close()

	var snap Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return Snapshot{}, &TransportError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("decode response: %w", err),
		}
	}

	return snap, nil
}

// Download opens the corrected document for jobID. The request timeout
// stays active until the returned Body is closed.
func (c *Client) Download(ctx context.Context, jobID string) (*Result, error) {
	const op = "download"

	if jobID == "" {
		return nil, ErrMissingJobID
	}

	ctx, cancel := c.withTimeout(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.jobURL("download", jobID), nil)
	if err != nil {
		cancel()
		return nil, &TransportError{Op: op, Err: err}
	}

	resp, err := c.do(op, req)
	if err != nil {
		cancel()
		return nil, err
	}

	if resp.ContentLength == 0 {
		resp.Body.Close()
		cancel()
		return nil, &TransportError{Op: op, StatusCode: resp.StatusCode, Err: ErrEmptyResult}
	}

	br := bufio.NewReader(resp.Body)
	if _, err := br.Peek(1); err != nil {
		resp.Body.Close()
		cancel()
		if errors.Is(err, io.EOF) {
			err = ErrEmptyResult
		}
		return nil, &TransportError{Op: op, StatusCode: resp.StatusCode, Err: err}
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = ContentTypePDF
	}

	return &Result{
		Body: &resultBody{
			Reader: br,
			body:   resp.Body,
			cancel: cancel,
		},
		ContentType:   contentType,
		ContentLength: resp.ContentLength,
		Filename:      dispositionFilename(resp.Header.Get("Content-Disposition")),
	}, nil
}

func (c *Client) do(op string, req *http.Request) (*http.Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		msg := readErrorMessage(resp.Body)
		c.logger.Warn(
			"remote call failed",
			"op", op,
			"status", resp.StatusCode,
			"error", msg,
		)
		return nil, &TransportError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%w: %s", ErrUnexpectedStatus, msg),
		}
	}

	return resp, nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

func (c *Client) jobURL(endpoint, jobID string) string {
	return c.baseURL + "/" + endpoint + "/" + url.PathEscape(jobID)
}

type resultBody struct {
	io.Reader
	body   io.Closer
	cancel context.CancelFunc
}

func (b *resultBody) Close() error {
	defer b.cancel()
	return b.body.Close()
}

func encodeMultipart(doc Document) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	contentType := doc.ContentType
	if contentType == "" {
		contentType = ContentTypePDF
	}

	h := make(textproto.MIMEHeader)
	h.Set(
		"Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(doc.Filename)),
	)
	h.Set("Content-Type", contentType)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(doc.Data); err != nil {
		return nil, "", fmt.Errorf("write form file: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}

	return buf, w.FormDataContentType(), nil
}

func readErrorMessage(r io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return "empty response"
	}

	var payload struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		for _, msg := range []string{payload.Detail, payload.Message, payload.Error} {
			if msg != "" {
				return msg
			}
		}
	}

	return string(data)
}

func dispositionFilename(header string) string {
	if header == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	return params["filename"]
}
