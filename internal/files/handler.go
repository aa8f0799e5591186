package files

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fileuploader-backend/internal/shared/server/middleware"
	"fileuploader-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service

	// MaxUploadBytes bounds the request body before multipart parsing
	// starts; the service enforces the same cap on the payload itself.
	MaxUploadBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches file routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/files", h.upload)
	rg.GET("/files", h.list)
	rg.GET("/files/:id/download", h.download)
	rg.PATCH("/files/:id", h.rename)
	rg.DELETE("/files/:id", h.remove)
}

func (h *Handler) upload(c *gin.Context) {
	ownerID := middleware.OwnerIDFromContext(c)
	if h.MaxUploadBytes > 0 {
		// Leave headroom for the multipart framing around the payload.
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes+(1<<20))
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "too_large", "file exceeds upload limit", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	stored, err := h.Svc.Upload(c.Request.Context(), ownerID, UploadInput{
		FolderID:    c.PostForm("folderId"),
		DisplayName: c.PostForm("displayName"),
		FileName:    fileHeader.Filename,
		MimeType:    fileHeader.Header.Get("Content-Type"),
		Content:     file,
	})
	if err != nil {
		h.respondError(c, err, "failed to upload file")
		return
	}
	c.Set("fileId", stored.ID)

	respond.JSON(c, http.StatusCreated, toResponse(stored))
}

func (h *Handler) list(c *gin.Context) {
	ownerID := middleware.OwnerIDFromContext(c)
	folderID := c.Query("folderId")

	listed, err := h.Svc.ListByFolder(c.Request.Context(), ownerID, folderID)
	if err != nil {
		h.respondError(c, err, "failed to list files")
		return
	}

	resp := make([]FileResponse, 0, len(listed))
	for _, file := range listed {
		resp = append(resp, toResponse(file))
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) download(c *gin.Context) {
	ownerID := middleware.OwnerIDFromContext(c)
	fileID := c.Param("id")
	c.Set("fileId", fileID)

	url, file, err := h.Svc.DownloadURL(c.Request.Context(), ownerID, fileID)
	if err != nil {
		h.respondError(c, err, "failed to build download url")
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{
		"url":      url,
		"fileName": file.OriginalName,
	})
}

type renameFileRequest struct {
	Name string `json:"name"`
}

func (h *Handler) rename(c *gin.Context) {
	ownerID := middleware.OwnerIDFromContext(c)
	fileID := c.Param("id")
	c.Set("fileId", fileID)

	var req renameFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	file, err := h.Svc.Rename(c.Request.Context(), ownerID, fileID, req.Name)
	if err != nil {
		h.respondError(c, err, "failed to rename file")
		return
	}

	respond.JSON(c, http.StatusOK, toResponse(file))
}

func (h *Handler) remove(c *gin.Context) {
	ownerID := middleware.OwnerIDFromContext(c)
	fileID := c.Param("id")
	c.Set("fileId", fileID)

	if err := h.Svc.Delete(c.Request.Context(), ownerID, fileID); err != nil {
		h.respondError(c, err, "failed to delete file")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "file not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrTooLarge):
		respond.Error(c, http.StatusRequestEntityTooLarge, "too_large", "file exceeds upload limit", nil)
	case errors.Is(err, ErrUploadFailed):
		respond.Error(c, http.StatusBadGateway, "upload_failed", "blob store rejected the upload", nil)
	case errors.Is(err, ErrMetadataPersist):
		respond.Error(c, http.StatusInternalServerError, "metadata_persist_failed", "file metadata could not be saved", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
