package stats

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fileuploader-backend/internal/shared/server/middleware"
	"fileuploader-backend/internal/shared/server/respond"
)

// Handler exposes the stats endpoint.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches stats routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/stats", h.summary)
}

func (h *Handler) summary(c *gin.Context) {
	ownerID := middleware.OwnerIDFromContext(c)

	summary, err := h.Svc.Summary(c.Request.Context(), ownerID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to compute stats", nil)
		return
	}

	respond.JSON(c, http.StatusOK, summary)
}
