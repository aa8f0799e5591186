package folders

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
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches folder routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/folders", h.create)
	rg.GET("/folders", h.listRoot)
	rg.GET("/folders/:id", h.contents)
	rg.PATCH("/folders/:id", h.update)
	rg.DELETE("/folders/:id", h.remove)
}

type createFolderRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ParentID    string `json:"parentId"`
}

func (h *Handler) create(c *gin.Context) {
	ownerID := middleware.OwnerIDFromContext(c)

	var req createFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	folder, err := h.Svc.Create(c.Request.Context(), ownerID, CreateInput{
		Name:        req.Name,
		Description: req.Description,
		ParentID:    req.ParentID,
	})
	if err != nil {
		h.respondError(c, err, "failed to create folder")
		return
	}
	c.Set("folderId", folder.ID)

	respond.JSON(c, http.StatusCreated, toResponse(folder))
}

func (h *Handler) listRoot(c *gin.Context) {
	ownerID := middleware.OwnerIDFromContext(c)

	contents, err := h.Svc.List(c.Request.Context(), ownerID, "")
	if err != nil {
		h.respondError(c, err, "failed to list folders")
		return
	}

	respond.JSON(c, http.StatusOK, toContentsResponse(contents))
}

func (h *Handler) contents(c *gin.Context) {
	ownerID := middleware.OwnerIDFromContext(c)
	folderID := c.Param("id")
	c.Set("folderId", folderID)

	contents, err := h.Svc.List(c.Request.Context(), ownerID, folderID)
	if err != nil {
		h.respondError(c, err, "failed to list folder contents")
		return
	}

	respond.JSON(c, http.StatusOK, toContentsResponse(contents))
}

type updateFolderRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	ParentID    *string `json:"parentId"`
}

func (h *Handler) update(c *gin.Context) {
	ownerID := middleware.OwnerIDFromContext(c)
	folderID := c.Param("id")
	c.Set("folderId", folderID)

	var req updateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if req.Name == nil && req.ParentID == nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "name or parentId is required", nil)
		return
	}

	var folder Folder
	var err error

	if req.ParentID != nil {
		folder, err = h.Svc.Move(c.Request.Context(), ownerID, folderID, *req.ParentID)
		if err != nil {
			h.respondError(c, err, "failed to move folder")
			return
		}
	}
	if req.Name != nil {
		description := folder.Description
		if req.ParentID == nil {
			current, getErr := h.Svc.Get(c.Request.Context(), ownerID, folderID)
			if getErr != nil {
				h.respondError(c, getErr, "failed to rename folder")
				return
			}
			description = current.Description
		}
		if req.Description != nil {
			description = *req.Description
		}
		folder, err = h.Svc.Rename(c.Request.Context(), ownerID, folderID, *req.Name, description)
		if err != nil {
			h.respondError(c, err, "failed to rename folder")
			return
		}
	}

	respond.JSON(c, http.StatusOK, toResponse(folder))
}

func (h *Handler) remove(c *gin.Context) {
	ownerID := middleware.OwnerIDFromContext(c)
	folderID := c.Param("id")
	c.Set("folderId", folderID)

	if err := h.Svc.Delete(c.Request.Context(), ownerID, folderID); err != nil {
		h.respondError(c, err, "failed to delete folder")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "folder not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrConflict):
		respond.Error(c, http.StatusConflict, "conflict", err.Error(), nil)
	case errors.Is(err, ErrNotEmpty):
		respond.Error(c, http.StatusConflict, "folder_not_empty", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
