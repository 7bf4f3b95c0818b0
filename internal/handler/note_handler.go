// Package handler contains the gin handlers of the notes API.
// Handlers never render errors themselves; they attach them with c.Error and the
// error middleware writes the response.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/weiwangfds/collegenotes/internal/database"
	apperrors "github.com/weiwangfds/collegenotes/internal/errors"
	"github.com/weiwangfds/collegenotes/internal/response"
	"github.com/weiwangfds/collegenotes/internal/service/note"
	"github.com/weiwangfds/collegenotes/internal/service/upload"
)

// NoteHandler metadata CRUD and uploads
type NoteHandler struct {
	noteService   note.NoteService
	uploadService upload.UploadService
}

// NewNoteHandler creates the handler
func NewNoteHandler(noteService note.NoteService, uploadService upload.UploadService) *NoteHandler {
	return &NoteHandler{
		noteService:   noteService,
		uploadService: uploadService,
	}
}

// LegacyUploadResponse body of POST /upload
type LegacyUploadResponse struct {
	Msg  string         `json:"msg" example:"File uploaded successfully"`
	File *database.Note `json:"file"`
}

// ListNotes lists records
// @Summary List notes
// @Description All records newest first. Filters are exact matches; page and page_size paginate when both are given.
// @Tags notes
// @Produce json
// @Param year query string false "year"
// @Param subject query string false "subject"
// @Param course query string false "course"
// @Param type query string false "document type"
// @Param folder query string false "folder"
// @Param page query int false "page, 1-based"
// @Param page_size query int false "page size, at most 500"
// @Success 200 {array} database.Note
// @Header 200 {integer} X-Total-Count "number of matching records"
// @Failure 400 {object} response.ErrorBody
// @Failure 500 {object} response.ErrorBody
// @Router /api/notes [get]
func (h *NoteHandler) ListNotes(c *gin.Context) {
	var query note.ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		_ = c.Error(apperrors.Validation(err.Error()))
		return
	}

	notes, total, err := h.noteService.List(c.Request.Context(), &query)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.WithTotal(c, notes, total)
}

// GetNote returns one record
// @Summary Get a note
// @Tags notes
// @Produce json
// @Param id path int true "note id"
// @Success 200 {object} database.Note
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /api/notes/{id} [get]
func (h *NoteHandler) GetNote(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	n, err := h.noteService.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, n)
}

// CreateNote uploads a file and records it
// @Summary Upload a note
// @Description Stores the file in the object store and creates its record.
// @Tags notes
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "document"
// @Param title formData string false "title"
// @Param year formData string true "year"
// @Param subject formData string true "subject"
// @Param course formData string true "course"
// @Param type formData string true "document type"
// @Param folder formData string true "object store folder"
// @Success 200 {object} database.Note
// @Failure 400 {object} response.ErrorBody
// @Failure 500 {object} response.ErrorBody
// @Router /api/notes [post]
func (h *NoteHandler) CreateNote(c *gin.Context) {
	n, err := h.upload(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, n)
}

// LegacyUpload is CreateNote with the response shape of the old /upload endpoint
// @Summary Upload a note (legacy)
// @Tags notes
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "document"
// @Param year formData string true "year"
// @Param subject formData string true "subject"
// @Param course formData string true "course"
// @Param type formData string true "document type"
// @Param folder formData string true "object store folder"
// @Success 200 {object} LegacyUploadResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 500 {object} response.ErrorBody
// @Router /upload [post]
func (h *NoteHandler) LegacyUpload(c *gin.Context) {
	n, err := h.upload(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, LegacyUploadResponse{Msg: "File uploaded successfully", File: n})
}

func (h *NoteHandler) upload(c *gin.Context) (*database.Note, error) {
	req := &upload.Request{
		Title:   c.PostForm("title"),
		Year:    c.PostForm("year"),
		Subject: c.PostForm("subject"),
		Course:  c.PostForm("course"),
		Type:    c.PostForm("type"),
		Folder:  c.PostForm("folder"),
	}

	fh, err := c.FormFile("file")
	if err != nil && !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
		return nil, apperrors.Validation("malformed multipart body: " + err.Error())
	}

	var file multipart.File
	if fh != nil {
		file, err = fh.Open()
		if err != nil {
			return nil, apperrors.Upload("failed to read uploaded file", err)
		}
		defer file.Close()

		req.FileName = fh.Filename
		req.File = file
		req.Size = fh.Size
		req.ContentType = fh.Header.Get("Content-Type")
	}

	return h.uploadService.Upload(c.Request.Context(), req)
}

// UpdateNote merges the submitted fields
// @Summary Update a note
// @Description Partial update of title, fileUrl, year, subject, course, type and folder. Other fields are rejected.
// @Tags notes
// @Accept json
// @Produce json
// @Param id path int true "note id"
// @Param note body note.UpdateNoteRequest true "fields to change"
// @Success 200 {object} database.Note
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /api/notes/{id} [put]
func (h *NoteHandler) UpdateNote(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req note.UpdateNoteRequest
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("request body must be a JSON object")
		}
		_ = c.Error(apperrors.Validation(strings.TrimPrefix(err.Error(), "json: ")))
		return
	}

	n, err := h.noteService.Update(c.Request.Context(), id, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, n)
}

// DeleteNote removes a record; the stored file stays in the object store
// @Summary Delete a note
// @Tags notes
// @Produce json
// @Param id path int true "note id"
// @Success 200 {object} response.MessageBody
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /api/notes/{id} [delete]
func (h *NoteHandler) DeleteNote(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.noteService.Delete(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	response.Message(c, "Note deleted successfully")
}

func parseID(c *gin.Context) (uint, error) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 0)
	if err != nil || id == 0 {
		return 0, apperrors.ErrInvalidID.WithDetails(raw)
	}
	return uint(id), nil
}
