// Package upload moves an uploaded payload through scratch storage into the object
// store and records it.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/weiwangfds/collegenotes/config"
	"github.com/weiwangfds/collegenotes/internal/database"
	apperrors "github.com/weiwangfds/collegenotes/internal/errors"
	"github.com/weiwangfds/collegenotes/internal/logger"
	"github.com/weiwangfds/collegenotes/internal/service/note"
	"github.com/weiwangfds/collegenotes/internal/service/oss"
)

// compensateTimeout bounds the best-effort delete after a failed insert
const compensateTimeout = 15 * time.Second

// Request one upload. FileName is empty when no file part was sent.
type Request struct {
	FileName    string    `form:"file" validate:"required"`
	File        io.Reader `form:"-"`
	Size        int64     `form:"-"`
	ContentType string    `form:"-"`

	Title   string `form:"title" validate:"max=255"`
	Year    string `form:"year" validate:"required,max=32"`
	Subject string `form:"subject" validate:"required,max=128"`
	Course  string `form:"course" validate:"required,max=128"`
	Type    string `form:"type" validate:"required,max=64"`
	Folder  string `form:"folder" validate:"required,max=255"`
}

func (r *Request) normalize() {
	r.FileName = strings.TrimSpace(r.FileName)
	r.Title = strings.TrimSpace(r.Title)
	r.Year = strings.TrimSpace(r.Year)
	r.Subject = strings.TrimSpace(r.Subject)
	r.Course = strings.TrimSpace(r.Course)
	r.Type = strings.TrimSpace(r.Type)
	r.Folder = strings.Trim(strings.TrimSpace(r.Folder), "/")
}

// UploadService runs the upload pipeline
type UploadService interface {
	Upload(ctx context.Context, req *Request) (*database.Note, error)
}

type uploadService struct {
	notes    note.NoteService
	provider oss.Provider
	config   config.UploadConfig
	validate *validator.Validate
}

// NewUploadService creates the pipeline
func NewUploadService(notes note.NoteService, provider oss.Provider, cfg config.UploadConfig) UploadService {
	return &uploadService{
		notes:    notes,
		provider: provider,
		config:   cfg,
		validate: note.NewValidator("form"),
	}
}

// Upload validates req, stores the file and records it.
// The scratch copy is removed on every return path.
func (s *uploadService) Upload(ctx context.Context, req *Request) (*database.Note, error) {
	req.normalize()
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	log := logger.WithFields(logrus.Fields{
		"file":     req.FileName,
		"folder":   req.Folder,
		"provider": s.provider.Name(),
	})

	scratch, err := s.writeScratch(req)
	if scratch != "" {
		defer removeScratch(scratch)
	}
	if err != nil {
		return nil, err
	}

	result, err := s.provider.Upload(ctx, oss.UploadInput{
		FilePath:    scratch,
		FileName:    filepath.Base(req.FileName),
		Folder:      req.Folder,
		ContentType: req.ContentType,
	})
	if err != nil {
		log.WithError(err).Error("object store upload failed")
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, apperrors.Upload(s.provider.Name(), err)
	}
	log = log.WithField("public_id", result.PublicID)

	record := &database.Note{
		Title:    req.Title,
		FileURL:  result.URL,
		PublicID: result.PublicID,
		Year:     req.Year,
		Subject:  req.Subject,
		Course:   req.Course,
		Type:     req.Type,
		Folder:   req.Folder,
	}
	if err := s.notes.Create(ctx, record); err != nil {
		log.WithError(err).Error("failed to record upload, removing stored object")
		s.compensate(result.PublicID, log)
		return nil, err
	}

	log.WithField("id", record.ID).Info("upload completed")
	return record, nil
}

func (s *uploadService) validateRequest(req *Request) error {
	if err := s.validate.Struct(req); err != nil {
		return note.ValidationError(err)
	}
	if req.File == nil {
		return apperrors.ErrFileRequired
	}
	if s.config.MaxFileSize > 0 && req.Size > s.config.MaxFileSize {
		return apperrors.ErrFileTooLarge.WithDetails(fmt.Sprintf("%d bytes exceeds the %d byte limit", req.Size, s.config.MaxFileSize))
	}
	if !s.isAllowedExtension(filepath.Ext(req.FileName)) {
		return apperrors.ErrFileTypeNotAllowed.WithDetails(filepath.Ext(req.FileName))
	}
	return nil
}

// isAllowedExtension checks ext against upload.allowed_extensions; "*" allows any
func (s *uploadService) isAllowedExtension(ext string) bool {
	if len(s.config.AllowedExtensions) == 0 {
		return true
	}
	ext = strings.TrimPrefix(ext, ".")
	for _, allowed := range s.config.AllowedExtensions {
		if allowed == "*" || strings.EqualFold(strings.TrimPrefix(allowed, "."), ext) {
			return true
		}
	}
	return false
}

// writeScratch copies the payload into a fresh file of the scratch directory.
// The returned path is set whenever a file was created, even on error.
func (s *uploadService) writeScratch(req *Request) (string, error) {
	dir := s.config.ScratchDir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", apperrors.Upload("failed to create scratch directory", err)
	}

	f, err := os.CreateTemp(dir, "upload-*"+strings.ToLower(filepath.Ext(req.FileName)))
	if err != nil {
		return "", apperrors.Upload("failed to create scratch file", err)
	}
	defer f.Close()

	src := req.File
	if s.config.MaxFileSize > 0 {
		src = io.LimitReader(src, s.config.MaxFileSize+1)
	}
	n, err := io.Copy(f, src)
	if err != nil {
		return f.Name(), apperrors.Upload("failed to write scratch file", err)
	}
	if s.config.MaxFileSize > 0 && n > s.config.MaxFileSize {
		return f.Name(), apperrors.ErrFileTooLarge.WithDetails(fmt.Sprintf("exceeds the %d byte limit", s.config.MaxFileSize))
	}
	if err := f.Sync(); err != nil {
		return f.Name(), apperrors.Upload("failed to flush scratch file", err)
	}
	return f.Name(), nil
}

// compensate makes one attempt to delete an object whose record could not be written
func (s *uploadService) compensate(publicID string, log *logrus.Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), compensateTimeout)
	defer cancel()

	if err := s.provider.Delete(ctx, publicID); err != nil {
		log.WithError(err).Warn("failed to delete orphaned object")
		return
	}
	log.Info("orphaned object deleted")
}

func removeScratch(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Warnf("failed to remove scratch file %s: %v", path, err)
	}
}
