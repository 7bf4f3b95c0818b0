// Package oss wraps the object stores an uploaded file can be forwarded to.
// Every provider exposes the same four operations; listing is paged through a Paginator.
package oss

import (
	"context"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Provider is one object store backend
type Provider interface {
	// Name returns the provider identifier, e.g. "cloudinary"
	Name() string
	// Upload stores the local file in.FilePath under in.Folder
	Upload(ctx context.Context, in UploadInput) (*UploadResult, error)
	// ListPage returns at most limit objects starting at cursor ("" for the first page)
	ListPage(ctx context.Context, cursor string, limit int) (*Page, error)
	// Delete removes the object with the given public id
	Delete(ctx context.Context, publicID string) error
	// Ping checks credentials and connectivity
	Ping(ctx context.Context) error
}

// UploadInput describes a scratch file to store
type UploadInput struct {
	FilePath    string // local path of the scratch copy
	FileName    string // client supplied file name
	Folder      string // object store path prefix
	ContentType string
}

// UploadResult is what the store reports for a stored object
type UploadResult struct {
	PublicID  string
	URL       string // secure (https) URL when the store offers one
	Bytes     int64
	CreatedAt time.Time
}

// Object one entry of a store listing
// @Description object store entry
type Object struct {
	PublicID  string    `json:"public_id" example:"Notes/2023/data_structures-notes.pdf"`
	URL       string    `json:"url" example:"https://res.cloudinary.com/demo/raw/upload/v1/Notes/2023/data_structures-notes.pdf"`
	CreatedAt time.Time `json:"created_at"`
	Folder    string    `json:"folder" example:"Notes/2023"`
}

// Page one listing page; NextCursor is empty on the last page
type Page struct {
	Objects    []Object
	NextCursor string
}

// FolderOf returns the directory part of a public id, "" for top level objects
func FolderOf(publicID string) string {
	dir := path.Dir(strings.TrimPrefix(publicID, "/"))
	if dir == "." || dir == "/" {
		return ""
	}
	return dir
}

// ObjectKey builds a collision free key for bucket based stores: folder/<uuid>/<file name>
func ObjectKey(folder, fileName string) string {
	name := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = "file"
	}
	folder = strings.Trim(path.Clean("/"+folder), "/")
	return path.Join(folder, uuid.NewString(), name)
}

// joinURL appends an object key to a base URL
func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
