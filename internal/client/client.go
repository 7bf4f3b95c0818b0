// Package client talks to the notes API on behalf of the command line client.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/weiwangfds/collegenotes/internal/catalog"
	"github.com/weiwangfds/collegenotes/internal/database"
	"github.com/weiwangfds/collegenotes/internal/logger"
	"github.com/weiwangfds/collegenotes/internal/service/oss"
)

// Messages shown to the user when an operation fails
const (
	MsgFetchFailed    = "Failed to fetch resources"
	MsgDownloadFailed = "Download failed. Please try again."
	MsgUploadFailed   = "Failed to upload file"
	MsgListFailed     = "Failed to fetch notes"
)

// maxListingPages stops FetchResources from following cursors forever
const maxListingPages = 50

// Error carries a fixed user facing message; the cause holds the server detail.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// APIError is a non 2xx answer of the API
type APIError struct {
	StatusCode int
	Status     string `json:"status"`
	Message    string `json:"message"`
	RequestID  string `json:"request_id"`
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("server returned %d", e.StatusCode)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.RequestID != "" {
		msg += " (request " + e.RequestID + ")"
	}
	return msg
}

// UploadRequest the attributes submitted with a file
type UploadRequest struct {
	FilePath string
	Title    string
	Year     string
	Type     string
	Subject  string
	Course   string
	Folder   string
}

// Client API client
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a client for the API at baseURL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 2 * time.Minute},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchResources reads the whole store listing and groups it into the catalog
func (c *Client) FetchResources(ctx context.Context) (*catalog.Catalog, error) {
	var items []catalog.Item
	cursor := ""
	for page := 0; page < maxListingPages; page++ {
		endpoint := "/cloudinary-files"
		if cursor != "" {
			endpoint += "?cursor=" + url.QueryEscape(cursor)
		}

		var listing oss.Listing
		if err := c.getJSON(ctx, endpoint, &listing); err != nil {
			return nil, fail(MsgFetchFailed, err)
		}
		for _, f := range listing.Files {
			items = append(items, catalog.Item{PublicID: f.PublicID, URL: f.URL, CreatedAt: f.CreatedAt})
		}

		if !listing.Truncated || listing.NextCursor == "" || listing.NextCursor == cursor {
			break
		}
		cursor = listing.NextCursor
	}
	return catalog.Build(items), nil
}

// ListNotes returns the metadata records, newest first
func (c *Client) ListNotes(ctx context.Context) ([]database.Note, error) {
	var notes []database.Note
	if err := c.getJSON(ctx, "/api/notes", &notes); err != nil {
		return nil, fail(MsgListFailed, err)
	}
	return notes, nil
}

// Download saves fileURL into dir and returns the local path
func (c *Client) Download(ctx context.Context, fileURL, dir string) (string, error) {
	dest, err := c.download(ctx, fileURL, dir)
	if err != nil {
		return "", fail(MsgDownloadFailed, err)
	}
	return dest, nil
}

func (c *Client) download(ctx context.Context, fileURL, dir string) (string, error) {
	u, err := url.Parse(fileURL)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", fileURL, err)
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		return "", fmt.Errorf("url %q has no file name", fileURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", decodeAPIError(resp)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	dest := filepath.Join(dir, name)
	tmp, err := os.CreateTemp(dir, "."+name+".*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return "", err
	}
	return dest, nil
}

// Upload submits a file with its attributes and returns the stored record
func (c *Client) Upload(ctx context.Context, in UploadRequest) (*database.Note, error) {
	note, err := c.upload(ctx, in)
	if err != nil {
		return nil, fail(MsgUploadFailed, err)
	}
	return note, nil
}

func (c *Client) upload(ctx context.Context, in UploadRequest) (*database.Note, error) {
	f, err := os.Open(in.FilePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	pr, pw := io.Pipe()
	w := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writeUploadForm(w, f, in))
	}()
	defer pr.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/notes", pr)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var note database.Note
	if err := c.do(req, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// writeUploadForm streams the attributes and the file into w and closes it
func writeUploadForm(w *multipart.Writer, file io.Reader, in UploadRequest) error {
	fields := []struct{ name, value string }{
		{"title", in.Title},
		{"year", in.Year},
		{"type", in.Type},
		{"subject", in.Subject},
		{"course", in.Course},
		{"folder", in.Folder},
	}
	for _, field := range fields {
		if err := w.WriteField(field.name, field.value); err != nil {
			return err
		}
	}
	part, err := w.CreateFormFile("file", filepath.Base(in.FilePath))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, file); err != nil {
		return err
	}
	return w.Close()
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(data, apiErr); err != nil {
		apiErr.Message = strings.TrimSpace(string(data))
	}
	return apiErr
}

func fail(message string, err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		logger.WithField("status", apiErr.StatusCode).
			WithField("request_id", apiErr.RequestID).
			Errorf("%s: %s", message, apiErr.Message)
	} else {
		logger.Errorf("%s: %v", message, err)
	}
	return &Error{Message: message, Err: err}
}
