package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/weiwangfds/collegenotes/config"
	"github.com/weiwangfds/collegenotes/internal/catalog"
	"github.com/weiwangfds/collegenotes/internal/response"
	"github.com/weiwangfds/collegenotes/internal/service/oss"
)

// StorageHandler reads the object store directly, bypassing the metadata records
type StorageHandler struct {
	provider oss.Provider
	config   config.StorageConfig
}

// NewStorageHandler creates the handler
func NewStorageHandler(provider oss.Provider, cfg config.StorageConfig) *StorageHandler {
	return &StorageHandler{provider: provider, config: cfg}
}

// ResourcesResponse grouped listing
// @Description grouped resources
type ResourcesResponse struct {
	*catalog.Catalog
	NextCursor string `json:"next_cursor,omitempty"`
	Truncated  bool   `json:"truncated"`
}

func (h *StorageHandler) collect(c *gin.Context) (*oss.Listing, error) {
	return oss.Collect(c.Request.Context(), h.provider, oss.ListOptions{
		Cursor:   c.Query("cursor"),
		PageSize: h.config.ListPageSize,
		MaxPages: h.config.ListMaxPages,
		Timeout:  h.config.ListTimeout,
	})
}

// ListFiles lists stored objects
// @Summary List stored files
// @Description Reads the object store listing page by page up to the configured bound. When truncated, pass next_cursor back as cursor to continue.
// @Tags storage
// @Produce json
// @Param cursor query string false "resume cursor"
// @Success 200 {object} oss.Listing
// @Failure 500 {object} response.ErrorBody
// @Router /api/storage/files [get]
func (h *StorageHandler) ListFiles(c *gin.Context) {
	listing, err := h.collect(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, listing)
}

// Resources groups the listing into notes and questions
// @Summary Browse resources
// @Description pdf and docx files grouped by section and top level folder, with display names.
// @Tags storage
// @Produce json
// @Param cursor query string false "resume cursor"
// @Success 200 {object} ResourcesResponse
// @Failure 500 {object} response.ErrorBody
// @Router /api/resources [get]
func (h *StorageHandler) Resources(c *gin.Context) {
	listing, err := h.collect(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	items := make([]catalog.Item, 0, len(listing.Files))
	for _, f := range listing.Files {
		items = append(items, catalog.Item{PublicID: f.PublicID, URL: f.URL, CreatedAt: f.CreatedAt})
	}
	response.OK(c, ResourcesResponse{
		Catalog:    catalog.Build(items),
		NextCursor: listing.NextCursor,
		Truncated:  listing.Truncated,
	})
}
