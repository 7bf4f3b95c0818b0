package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResourcesCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/cloudinary-files", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"files":[
			{"public_id":"Notes/2023/data_structures-notes.pdf","url":"https://cdn.example.com/ds.pdf","created_at":"2023-05-01T10:00:00Z"},
			{"public_id":"Questions/2023/dbms_paper.docx","url":"https://cdn.example.com/dbms_paper.docx","created_at":"2023-05-02T10:00:00Z"},
			{"public_id":"Notes/2023/cover.png","url":"https://cdn.example.com/cover.png","created_at":"2023-05-03T10:00:00Z"}
		],"truncated":false}`))
	}))
	defer srv.Close()

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out

	require.NoError(t, app.Run([]string{"notes-client", "--server", srv.URL, "resources"}))

	text := out.String()
	assert.Contains(t, text, "== Notes ==")
	assert.Contains(t, text, "Data Structures Notes")
	assert.Contains(t, text, "Dbms Paper")
	assert.NotContains(t, text, "cover")
}

func TestNotesCommandReportsFixedMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"status":"error","message":"Internal server error"}`))
	}))
	defer srv.Close()

	app := newApp()
	app.Writer = &bytes.Buffer{}

	err := app.Run([]string{"notes-client", "--server", srv.URL, "notes"})
	require.Error(t, err)
	assert.Equal(t, "Failed to fetch notes", err.Error())
}
