package note

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weiwangfds/collegenotes/config"
	"github.com/weiwangfds/collegenotes/internal/database"
	apperrors "github.com/weiwangfds/collegenotes/internal/errors"
	"gorm.io/gorm"
)

// setupTestDB opens a private in-memory database
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := database.Init(config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:", LogLevel: "silent"})
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })
	return db
}

func newNote(title, folder string) *database.Note {
	return &database.Note{
		Title:    title,
		FileURL:  "https://cdn.example.com/" + folder + "/" + title + ".pdf",
		PublicID: folder + "/" + title + ".pdf",
		Year:     "2023",
		Subject:  "Data Structures",
		Course:   "BCA",
		Type:     "notes",
		Folder:   folder,
	}
}

func strPtr(s string) *string { return &s }

func TestCreateAndGet(t *testing.T) {
	svc := NewNoteService(setupTestDB(t))
	ctx := context.Background()

	n := newNote("unit-1", "Notes/2023")
	require.NoError(t, svc.Create(ctx, n))
	assert.NotZero(t, n.ID)

	got, err := svc.Get(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, n.FileURL, got.FileURL)
	assert.Equal(t, "Notes/2023", got.Folder)
}

func TestCreateRejectsEmptyFileURL(t *testing.T) {
	svc := NewNoteService(setupTestDB(t))

	n := newNote("unit-1", "Notes/2023")
	n.FileURL = ""
	err := svc.Create(context.Background(), n)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestGetMissingIsNotFound(t *testing.T) {
	svc := NewNoteService(setupTestDB(t))

	_, err := svc.Get(context.Background(), 42)
	assert.ErrorIs(t, err, apperrors.ErrNoteNotFound)
}

func TestListNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	svc := NewNoteService(db)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		n := newNote(fmt.Sprintf("n%d", i), "Notes/2023")
		n.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, svc.Create(ctx, n))
	}
	// same timestamp as n2: the higher id wins
	tie := newNote("tie", "Notes/2023")
	tie.CreatedAt = base.Add(2 * time.Hour)
	require.NoError(t, svc.Create(ctx, tie))

	notes, total, err := svc.List(ctx, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	require.Len(t, notes, 4)
	assert.Equal(t, []string{"tie", "n2", "n1", "n0"}, titles(notes))
}

func TestListEmptyIsEmptySlice(t *testing.T) {
	svc := NewNoteService(setupTestDB(t))

	notes, total, err := svc.List(context.Background(), &ListQuery{})
	require.NoError(t, err)
	assert.NotNil(t, notes)
	assert.Empty(t, notes)
	assert.Zero(t, total)
}

func TestListFiltersAndPages(t *testing.T) {
	svc := NewNoteService(setupTestDB(t))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, svc.Create(ctx, newNote(fmt.Sprintf("note-%d", i), "Notes/2023")))
	}
	q := newNote("paper", "Questions/2023")
	q.Type = "questions"
	require.NoError(t, svc.Create(ctx, q))

	notes, total, err := svc.List(ctx, &ListQuery{Folder: "Questions/2023"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, []string{"paper"}, titles(notes))

	notes, total, err = svc.List(ctx, &ListQuery{Type: "notes", Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Len(t, notes, 2)

	_, _, err = svc.List(ctx, &ListQuery{PageSize: 1000})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestUpdateMergesSubmittedFields(t *testing.T) {
	svc := NewNoteService(setupTestDB(t))
	ctx := context.Background()

	n := newNote("unit-1", "Notes/2023")
	require.NoError(t, svc.Create(ctx, n))

	updated, err := svc.Update(ctx, n.ID, &UpdateNoteRequest{Title: strPtr("  Unit One "), Year: strPtr("2024")})
	require.NoError(t, err)
	assert.Equal(t, "Unit One", updated.Title)
	assert.Equal(t, "2024", updated.Year)
	assert.Equal(t, n.Subject, updated.Subject)
	assert.Equal(t, n.FileURL, updated.FileURL)

	// empty update leaves the record untouched
	same, err := svc.Update(ctx, n.ID, &UpdateNoteRequest{})
	require.NoError(t, err)
	assert.Equal(t, "Unit One", same.Title)
}

func TestUpdateRejectsBlankRequiredField(t *testing.T) {
	svc := NewNoteService(setupTestDB(t))
	ctx := context.Background()

	n := newNote("unit-1", "Notes/2023")
	require.NoError(t, svc.Create(ctx, n))

	_, err := svc.Update(ctx, n.ID, &UpdateNoteRequest{Subject: strPtr("   ")})
	require.Error(t, err)
	appErr := apperrors.From(err)
	assert.Equal(t, apperrors.KindValidation, appErr.Kind)
	assert.Equal(t, []string{"subject"}, appErr.Fields)

	_, err = svc.Update(ctx, n.ID, &UpdateNoteRequest{
		Year:    strPtr(""),
		Subject: strPtr("   "),
		Folder:  strPtr(""),
	})
	require.Error(t, err)
	appErr = apperrors.From(err)
	assert.Equal(t, []string{"year", "subject", "folder"}, appErr.Fields)
	assert.Contains(t, appErr.Details, "missing required fields: year, subject, folder")

	_, err = svc.Update(ctx, n.ID, &UpdateNoteRequest{FileURL: strPtr("not a url")})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	got, err := svc.Get(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, "Data Structures", got.Subject)
	assert.Equal(t, n.Year, got.Year)
	assert.Equal(t, n.Folder, got.Folder)
}

func TestUpdateMissingIsNotFound(t *testing.T) {
	svc := NewNoteService(setupTestDB(t))

	_, err := svc.Update(context.Background(), 7, &UpdateNoteRequest{Title: strPtr("x")})
	assert.ErrorIs(t, err, apperrors.ErrNoteNotFound)
}

func TestDelete(t *testing.T) {
	svc := NewNoteService(setupTestDB(t))
	ctx := context.Background()

	n := newNote("unit-1", "Notes/2023")
	require.NoError(t, svc.Create(ctx, n))

	require.NoError(t, svc.Delete(ctx, n.ID))
	_, err := svc.Get(ctx, n.ID)
	assert.ErrorIs(t, err, apperrors.ErrNoteNotFound)

	// second delete of the same id
	assert.ErrorIs(t, svc.Delete(ctx, n.ID), apperrors.ErrNoteNotFound)

	notes, _, err := svc.List(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func titles(notes []database.Note) []string {
	out := make([]string, 0, len(notes))
	for _, n := range notes {
		out = append(out, n.Title)
	}
	return out
}
