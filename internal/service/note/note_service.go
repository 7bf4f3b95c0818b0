// Package note implements the metadata CRUD over uploaded file records.
package note

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/weiwangfds/collegenotes/internal/database"
	apperrors "github.com/weiwangfds/collegenotes/internal/errors"
	"github.com/weiwangfds/collegenotes/internal/logger"
	"gorm.io/gorm"
)

// NoteService metadata record operations
type NoteService interface {
	// Create inserts a record produced by the upload pipeline
	Create(ctx context.Context, note *database.Note) error

	// List returns records newest first with the total number of matches
	List(ctx context.Context, query *ListQuery) ([]database.Note, int64, error)

	// Get returns one record or NotFoundError
	Get(ctx context.Context, id uint) (*database.Note, error)

	// Update merges the submitted fields into the record
	Update(ctx context.Context, id uint, req *UpdateNoteRequest) (*database.Note, error)

	// Delete soft-deletes the record; the stored object is left in place
	Delete(ctx context.Context, id uint) error
}

// ListQuery optional filters and pagination.
// Page and PageSize only apply when both are positive.
type ListQuery struct {
	Year     string `form:"year"`
	Subject  string `form:"subject"`
	Course   string `form:"course"`
	Type     string `form:"type"`
	Folder   string `form:"folder"`
	Page     int    `form:"page" validate:"gte=0"`
	PageSize int    `form:"page_size" validate:"gte=0,lte=500"`
}

// UpdateNoteRequest partial update; nil fields are left unchanged
type UpdateNoteRequest struct {
	Title   *string `json:"title" validate:"omitnil,max=255"`
	FileURL *string `json:"fileUrl" validate:"omitnil,min=1,url"`
	Year    *string `json:"year" validate:"omitnil,min=1,max=32"`
	Subject *string `json:"subject" validate:"omitnil,min=1,max=128"`
	Course  *string `json:"course" validate:"omitnil,min=1,max=128"`
	Type    *string `json:"type" validate:"omitnil,min=1,max=64"`
	Folder  *string `json:"folder" validate:"omitnil,min=1,max=255"`
}

// updates trims the submitted values and returns them keyed by column
func (r *UpdateNoteRequest) updates() map[string]interface{} {
	fields := map[string]*string{
		"title":    r.Title,
		"file_url": r.FileURL,
		"year":     r.Year,
		"subject":  r.Subject,
		"course":   r.Course,
		"type":     r.Type,
		"folder":   r.Folder,
	}
	updates := make(map[string]interface{})
	for column, value := range fields {
		if value == nil {
			continue
		}
		*value = strings.TrimSpace(*value)
		updates[column] = *value
	}
	return updates
}

type noteService struct {
	db       *gorm.DB
	validate *validator.Validate
}

// NewNoteService creates the service
func NewNoteService(db *gorm.DB) NoteService {
	return &noteService{
		db:       db,
		validate: NewValidator("json"),
	}
}

// NewValidator returns a validator reporting fields by the given struct tag (json or form)
func NewValidator(tag string) *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// ValidationError converts validator failures into a ValidationError naming every field
func ValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.Validation(err.Error())
	}

	var missing, invalid []string
	for _, fe := range verrs {
		if isMissing(fe) {
			missing = append(missing, fe.Field())
		} else {
			invalid = append(invalid, fe.Field())
		}
	}

	var parts []string
	if len(missing) > 0 {
		parts = append(parts, "missing required fields: "+strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		parts = append(parts, "invalid fields: "+strings.Join(invalid, ", "))
	}
	return apperrors.Validation(strings.Join(parts, "; "), append(missing, invalid...)...)
}

// isMissing reports absent values and strings left empty after trimming
func isMissing(fe validator.FieldError) bool {
	return fe.Tag() == "required" || (fe.Tag() == "min" && fe.Param() == "1")
}

func (s *noteService) Create(ctx context.Context, note *database.Note) error {
	if note.FileURL == "" {
		return apperrors.Validation("missing required fields: fileUrl", "fileUrl")
	}
	if err := s.db.WithContext(ctx).Create(note).Error; err != nil {
		return apperrors.Unhandled(fmt.Errorf("failed to create note: %w", err))
	}
	logger.Infof("note created: id=%d public_id=%s", note.ID, note.PublicID)
	return nil
}

func (s *noteService) List(ctx context.Context, query *ListQuery) ([]database.Note, int64, error) {
	if query == nil {
		query = &ListQuery{}
	}
	if err := s.validate.Struct(query); err != nil {
		return nil, 0, ValidationError(err)
	}

	tx := s.db.WithContext(ctx).Model(&database.Note{})
	filters := map[string]string{
		"year":    query.Year,
		"subject": query.Subject,
		"course":  query.Course,
		"type":    query.Type,
		"folder":  query.Folder,
	}
	for column, value := range filters {
		if value = strings.TrimSpace(value); value != "" {
			tx = tx.Where(column+" = ?", value)
		}
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Unhandled(fmt.Errorf("failed to count notes: %w", err))
	}

	tx = tx.Order("created_at DESC").Order("id DESC")
	if query.Page > 0 && query.PageSize > 0 {
		tx = tx.Offset((query.Page - 1) * query.PageSize).Limit(query.PageSize)
	}

	notes := []database.Note{}
	if err := tx.Find(&notes).Error; err != nil {
		return nil, 0, apperrors.Unhandled(fmt.Errorf("failed to list notes: %w", err))
	}
	return notes, total, nil
}

func (s *noteService) Get(ctx context.Context, id uint) (*database.Note, error) {
	return s.find(s.db.WithContext(ctx), id)
}

func (s *noteService) find(tx *gorm.DB, id uint) (*database.Note, error) {
	var note database.Note
	if err := tx.First(&note, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNoteNotFound.WithDetails(fmt.Sprintf("id %d", id))
		}
		return nil, apperrors.Unhandled(fmt.Errorf("failed to get note %d: %w", id, err))
	}
	return &note, nil
}

func (s *noteService) Update(ctx context.Context, id uint, req *UpdateNoteRequest) (*database.Note, error) {
	if req == nil {
		req = &UpdateNoteRequest{}
	}
	updates := req.updates()
	if err := s.validate.Struct(req); err != nil {
		return nil, ValidationError(err)
	}

	var updated *database.Note
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		note, err := s.find(tx, id)
		if err != nil {
			return err
		}
		if len(updates) > 0 {
			if err := tx.Model(note).Updates(updates).Error; err != nil {
				return apperrors.Unhandled(fmt.Errorf("failed to update note %d: %w", id, err))
			}
		}
		updated, err = s.find(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Infof("note updated: id=%d fields=%d", id, len(updates))
	return updated, nil
}

func (s *noteService) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&database.Note{}, id)
	if result.Error != nil {
		return apperrors.Unhandled(fmt.Errorf("failed to delete note %d: %w", id, result.Error))
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNoteNotFound.WithDetails(fmt.Sprintf("id %d", id))
	}
	logger.Infof("note deleted: id=%d", id)
	return nil
}
