package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weiwangfds/collegenotes/config"
)

func TestInitSQLiteMemory(t *testing.T) {
	db, err := Init(config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:", LogLevel: "silent"})
	require.NoError(t, err)
	defer Close(db)

	assert.True(t, db.Migrator().HasTable(&Note{}))
	assert.NoError(t, Ping(db))

	note := Note{FileURL: "https://example.com/a.pdf", Year: "2023", Subject: "Maths", Course: "BCA", Type: "notes", Folder: "Notes/2023"}
	require.NoError(t, db.Create(&note).Error)
	assert.NotZero(t, note.ID)
	assert.False(t, note.CreatedAt.IsZero())
}

func TestInitRejectsUnknownDriver(t *testing.T) {
	_, err := Init(config.DatabaseConfig{Driver: "oracle"})
	assert.ErrorContains(t, err, "unsupported database driver")
}
