package oss

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/weiwangfds/collegenotes/internal/errors"
	"github.com/weiwangfds/collegenotes/internal/logger"
)

// Paginator walks a provider listing one page per NextPage call
type Paginator struct {
	provider  Provider
	limit     int
	cursor    string
	firstPage bool
}

// NewPaginator returns a paginator starting at cursor ("" for the beginning)
func NewPaginator(provider Provider, cursor string, limit int) *Paginator {
	return &Paginator{
		provider:  provider,
		limit:     limit,
		cursor:    cursor,
		firstPage: true,
	}
}

// HasMorePages reports whether NextPage may be called
func (p *Paginator) HasMorePages() bool {
	return p.firstPage || p.cursor != ""
}

// Cursor is the cursor of the page NextPage would fetch next
func (p *Paginator) Cursor() string {
	return p.cursor
}

// NextPage fetches the next page with exactly one provider call
func (p *Paginator) NextPage(ctx context.Context) (*Page, error) {
	if !p.HasMorePages() {
		return nil, fmt.Errorf("no more pages available")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page, err := p.provider.ListPage(ctx, p.cursor, p.limit)
	if err != nil {
		return nil, err
	}

	prev := p.cursor
	p.firstPage = false
	p.cursor = page.NextCursor
	// a store returning the same cursor twice would loop forever
	if p.cursor == prev {
		p.cursor = ""
	}
	return page, nil
}

// Listing is the result of a bounded walk over the store
// @Description object store listing
type Listing struct {
	Files      []Object `json:"files"`
	NextCursor string   `json:"next_cursor,omitempty"`
	Truncated  bool     `json:"truncated"`
}

// ListOptions bounds a walk
type ListOptions struct {
	Cursor   string
	PageSize int
	MaxPages int
	Timeout  time.Duration
}

// Collect fetches at most opts.MaxPages pages sequentially.
// Duplicate public ids are dropped; when pages remain the listing is marked truncated
// and carries the cursor to resume from.
func Collect(ctx context.Context, provider Provider, opts ListOptions) (*Listing, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}
	if opts.MaxPages <= 0 {
		opts.MaxPages = 1
	}

	listing := &Listing{Files: []Object{}}
	seen := make(map[string]struct{})
	paginator := NewPaginator(provider, opts.Cursor, opts.PageSize)

	for pages := 0; paginator.HasMorePages(); pages++ {
		if pages == opts.MaxPages {
			listing.Truncated = true
			listing.NextCursor = paginator.Cursor()
			break
		}

		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, listError(provider.Name(), err)
		}
		for _, obj := range page.Objects {
			if _, dup := seen[obj.PublicID]; dup {
				continue
			}
			seen[obj.PublicID] = struct{}{}
			if obj.Folder == "" {
				obj.Folder = FolderOf(obj.PublicID)
			}
			listing.Files = append(listing.Files, obj)
		}
	}

	logger.Debugf("[%s] listed %d objects, truncated=%v", provider.Name(), len(listing.Files), listing.Truncated)
	return listing, nil
}

func listError(provider string, err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.ErrStorageListFailed.WithDetails(provider + ": listing timed out").WithError(err)
	}
	return apperrors.ErrStorageListFailed.WithDetails(provider).WithError(err)
}
