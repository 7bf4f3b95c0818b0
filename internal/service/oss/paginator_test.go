package oss_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/weiwangfds/collegenotes/internal/errors"
	"github.com/weiwangfds/collegenotes/internal/service/oss"
	"github.com/weiwangfds/collegenotes/internal/service/oss/osstest"
)

func seeded(n int) *osstest.Provider {
	p := osstest.New()
	for i := 0; i < n; i++ {
		p.Seed(fmt.Sprintf("Notes/2023/file-%02d.pdf", i))
	}
	return p
}

func TestPaginatorIssuesOneCallPerPage(t *testing.T) {
	p := seeded(5)
	paginator := oss.NewPaginator(p, "", 2)

	var ids []string
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(context.Background())
		require.NoError(t, err)
		for _, obj := range page.Objects {
			ids = append(ids, obj.PublicID)
		}
	}

	assert.Len(t, ids, 5)
	assert.Equal(t, 3, p.ListCalls)
	_, err := paginator.NextPage(context.Background())
	assert.Error(t, err)
}

func TestCollectUnionHasNoGapsOrDuplicates(t *testing.T) {
	p := seeded(7)
	// the same object listed twice
	p.Seed("Notes/2023/file-03.pdf")

	listing, err := oss.Collect(context.Background(), p, oss.ListOptions{PageSize: 3, MaxPages: 10})
	require.NoError(t, err)

	assert.False(t, listing.Truncated)
	assert.Empty(t, listing.NextCursor)
	require.Len(t, listing.Files, 7)
	for i, f := range listing.Files {
		assert.Equal(t, fmt.Sprintf("Notes/2023/file-%02d.pdf", i), f.PublicID)
		assert.Equal(t, "Notes/2023", f.Folder)
	}
}

func TestCollectStopsAtPageBoundAndResumes(t *testing.T) {
	p := seeded(10)

	first, err := oss.Collect(context.Background(), p, oss.ListOptions{PageSize: 3, MaxPages: 2})
	require.NoError(t, err)
	assert.True(t, first.Truncated)
	assert.Equal(t, "6", first.NextCursor)
	assert.Len(t, first.Files, 6)
	assert.Equal(t, 2, p.ListCalls)

	rest, err := oss.Collect(context.Background(), p, oss.ListOptions{Cursor: first.NextCursor, PageSize: 3, MaxPages: 5})
	require.NoError(t, err)
	assert.False(t, rest.Truncated)
	require.Len(t, rest.Files, 4)
	assert.Equal(t, "Notes/2023/file-06.pdf", rest.Files[0].PublicID)
}

func TestCollectEmptyStore(t *testing.T) {
	listing, err := oss.Collect(context.Background(), osstest.New(), oss.ListOptions{PageSize: 10, MaxPages: 1})
	require.NoError(t, err)
	assert.NotNil(t, listing.Files)
	assert.Empty(t, listing.Files)
}

func TestCollectHonoursCancellation(t *testing.T) {
	p := seeded(4)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := oss.Collect(ctx, p, oss.ListOptions{PageSize: 2, MaxPages: 5, Timeout: time.Second})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 0, p.ListCalls)
}

func TestCollectWrapsProviderErrors(t *testing.T) {
	p := osstest.New()
	p.ListErr = errors.New("403 forbidden")

	_, err := oss.Collect(context.Background(), p, oss.ListOptions{PageSize: 2, MaxPages: 1})
	assert.ErrorIs(t, err, apperrors.ErrStorageListFailed)

	unconfigured := oss.NewUnconfigured("cloudinary", errors.New("missing api_key"))
	_, err = oss.Collect(context.Background(), unconfigured, oss.ListOptions{PageSize: 2, MaxPages: 1})
	assert.ErrorIs(t, err, apperrors.ErrStorageNotConfigured)
	assert.True(t, apperrors.IsKind(err, apperrors.KindUpload))
}
