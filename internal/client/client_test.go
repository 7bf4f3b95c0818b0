package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weiwangfds/collegenotes/config"
	"github.com/weiwangfds/collegenotes/internal/database"
	"github.com/weiwangfds/collegenotes/internal/router"
	"github.com/weiwangfds/collegenotes/internal/service/oss/osstest"
)

func newAPI(t *testing.T) (*Client, *osstest.Provider) {
	t.Helper()
	db, err := database.Init(config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:", LogLevel: "silent"})
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })

	store := osstest.New()
	cfg := &config.Config{
		Server: config.ServerConfig{Mode: gin.TestMode},
		Storage: config.StorageConfig{
			ListPageSize: 2,
			ListMaxPages: 2,
			ListTimeout:  time.Second,
		},
		Upload: config.UploadConfig{
			ScratchDir:        t.TempDir(),
			MaxFileSize:       1 << 20,
			AllowedExtensions: []string{"*"},
		},
	}
	srv := httptest.NewServer(router.NewRouter(db, store, cfg).GetEngine())
	t.Cleanup(srv.Close)
	return New(srv.URL + "/"), store
}

func TestFetchResourcesFollowsCursors(t *testing.T) {
	c, store := newAPI(t)
	store.Seed(
		"Notes/2023/data_structures-notes.pdf",
		"Questions/2023/dbms_paper.docx",
		"Notes/2022/os.pdf",
		"Notes/2022/cover.png",
		"Questions/2022/maths-1.pdf",
		"Lab Manuals/java_lab.pdf",
	)

	cat, err := c.FetchResources(context.Background())
	require.NoError(t, err)

	// six objects over pages of two, the server stops after two pages per request
	assert.Equal(t, 5, cat.Len())
	require.Len(t, cat.Notes, 2)
	assert.Equal(t, "Notes", cat.Notes[0].Folder)
	assert.Equal(t, "Data Structures Notes", cat.Notes[0].Files[0].DisplayName)
	assert.Equal(t, "Lab Manuals", cat.Notes[1].Folder)
	assert.Equal(t, "Java Lab", cat.Notes[1].Files[0].DisplayName)
	require.Len(t, cat.Questions, 1)
	assert.Len(t, cat.Questions[0].Files, 2)
	assert.Equal(t, 3, store.ListCalls)
}

func TestFetchResourcesFailure(t *testing.T) {
	c, store := newAPI(t)
	store.ListErr = errors.New("admin api unavailable")

	_, err := c.FetchResources(context.Background())
	require.Error(t, err)
	assert.Equal(t, MsgFetchFailed, err.Error())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "error", apiErr.Status)
	assert.NotEmpty(t, apiErr.RequestID)
}

func TestUploadAndListNotes(t *testing.T) {
	c, store := newAPI(t)

	path := filepath.Join(t.TempDir(), "graphs.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0644))

	note, err := c.Upload(context.Background(), UploadRequest{
		FilePath: path,
		Title:    "Graphs",
		Year:     "2023",
		Type:     "notes",
		Subject:  "Algorithms",
		Course:   "BCA",
		Folder:   "Notes/2023",
	})
	require.NoError(t, err)
	assert.NotZero(t, note.ID)
	assert.Equal(t, "Graphs", note.Title)
	assert.Equal(t, "https://cdn.example.com/Notes/2023/graphs.pdf", note.FileURL)
	assert.Equal(t, []byte("%PDF-1.4"), store.Uploaded["Notes/2023/graphs.pdf"])

	notes, err := c.ListNotes(context.Background())
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, note.ID, notes[0].ID)
}

func TestUploadStreamsMultipartBody(t *testing.T) {
	content := strings.Repeat("page ", 200<<10)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// a buffered body would carry a Content-Length
		assert.Equal(t, int64(-1), r.ContentLength)
		assert.Equal(t, []string{"chunked"}, r.TransferEncoding)

		fh, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer fh.Close()
		data, err := io.ReadAll(fh)
		require.NoError(t, err)
		assert.Equal(t, "big.pdf", header.Filename)
		assert.Equal(t, len(content), len(data))
		assert.Equal(t, "Notes/2023", r.FormValue("folder"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":3,"fileUrl":"https://cdn.example.com/Notes/2023/big.pdf","folder":"Notes/2023"}`))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "big.pdf")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	note, err := New(srv.URL).Upload(context.Background(), UploadRequest{
		FilePath: path,
		Year:     "2023",
		Type:     "notes",
		Subject:  "Algorithms",
		Course:   "BCA",
		Folder:   "Notes/2023",
	})
	require.NoError(t, err)
	assert.Equal(t, uint(3), note.ID)
}

func TestUploadValidationFailure(t *testing.T) {
	c, store := newAPI(t)

	path := filepath.Join(t.TempDir(), "graphs.pdf")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	_, err := c.Upload(context.Background(), UploadRequest{FilePath: path, Year: "2023"})
	require.Error(t, err)
	assert.Equal(t, MsgUploadFailed, err.Error())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "subject")
	assert.Empty(t, store.Uploaded)
}

func TestUploadMissingFile(t *testing.T) {
	c, _ := newAPI(t)

	_, err := c.Upload(context.Background(), UploadRequest{FilePath: filepath.Join(t.TempDir(), "nope.pdf")})
	require.Error(t, err)
	assert.Equal(t, MsgUploadFailed, err.Error())
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestDownload(t *testing.T) {
	files := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/raw/upload/Notes/os.pdf" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("operating systems"))
	}))
	defer files.Close()

	c := New("http://unused.invalid")
	dir := filepath.Join(t.TempDir(), "downloads")

	dest, err := c.Download(context.Background(), files.URL+"/raw/upload/Notes/os.pdf?v=1", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "os.pdf"), dest)
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "operating systems", string(data))

	_, err = c.Download(context.Background(), files.URL+"/raw/upload/Notes/missing.pdf", dir)
	require.Error(t, err)
	assert.Equal(t, MsgDownloadFailed, err.Error())
	_, statErr := os.Stat(filepath.Join(dir, "missing.pdf"))
	assert.True(t, os.IsNotExist(statErr))
}
