// Package osstest provides an in-memory oss.Provider for tests.
package osstest

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/weiwangfds/collegenotes/internal/service/oss"
)

// Provider keeps objects in memory and records every call
type Provider struct {
	mu sync.Mutex

	Objects   []oss.Object
	Uploaded  map[string][]byte
	Deleted   []string
	ListCalls int

	// UploadErr, ListErr and DeleteErr are returned by the matching call when set
	UploadErr error
	ListErr   error
	DeleteErr error

	// ScratchSeen records whether the scratch file existed during Upload
	ScratchSeen []string
}

// New returns an empty fake store
func New() *Provider {
	return &Provider{Uploaded: make(map[string][]byte)}
}

// Name implements oss.Provider
func (p *Provider) Name() string { return "fake" }

// Upload implements oss.Provider
func (p *Provider) Upload(ctx context.Context, in oss.UploadInput) (*oss.UploadResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.ScratchSeen = append(p.ScratchSeen, in.FilePath)
	if p.UploadErr != nil {
		return nil, p.UploadErr
	}
	data, err := os.ReadFile(in.FilePath)
	if err != nil {
		return nil, fmt.Errorf("read scratch file: %w", err)
	}

	publicID := in.Folder + "/" + in.FileName
	p.Uploaded[publicID] = data
	obj := oss.Object{
		PublicID:  publicID,
		URL:       "https://cdn.example.com/" + publicID,
		CreatedAt: time.Now(),
		Folder:    in.Folder,
	}
	p.Objects = append(p.Objects, obj)
	return &oss.UploadResult{PublicID: publicID, URL: obj.URL, Bytes: int64(len(data)), CreatedAt: obj.CreatedAt}, nil
}

// ListPage implements oss.Provider; cursors are decimal offsets
func (p *Provider) ListPage(ctx context.Context, cursor string, limit int) (*oss.Page, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.ListCalls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.ListErr != nil {
		return nil, p.ListErr
	}

	start := 0
	if cursor != "" {
		n, err := strconv.Atoi(cursor)
		if err != nil {
			return nil, fmt.Errorf("bad cursor %q", cursor)
		}
		start = n
	}
	if limit <= 0 {
		limit = len(p.Objects)
	}
	end := start + limit
	if end > len(p.Objects) {
		end = len(p.Objects)
	}

	page := &oss.Page{Objects: append([]oss.Object(nil), p.Objects[start:end]...)}
	if end < len(p.Objects) {
		page.NextCursor = strconv.Itoa(end)
	}
	return page, nil
}

// Delete implements oss.Provider
func (p *Provider) Delete(ctx context.Context, publicID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Deleted = append(p.Deleted, publicID)
	return p.DeleteErr
}

// Ping implements oss.Provider
func (p *Provider) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Seed appends objects with the given public ids
func (p *Provider) Seed(publicIDs ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, id := range publicIDs {
		p.Objects = append(p.Objects, oss.Object{
			PublicID:  id,
			URL:       "https://cdn.example.com/" + id,
			CreatedAt: time.Now(),
		})
	}
}
