package parses

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resume-manager/internal/documents"
	"resume-manager/internal/shared/server/middleware"
	"resume-manager/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the parses service.
type Handler struct {
	Svc     *Service
	DocRepo documents.DocumentsRepo
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, docRepo documents.DocumentsRepo) *Handler {
	return &Handler{Svc: svc, DocRepo: docRepo}
}

// RegisterRoutes attaches parse routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents/:id/parse", h.startParse)
	rg.GET("/parses", h.listParses)
	rg.GET("/parses/:id", h.getParse)
}

func (h *Handler) startParse(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	documentID := c.Param("id")
	if documentID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "document id is required", nil)
		return
	}

	doc, err := h.DocRepo.GetByID(c.Request.Context(), userID, documentID)
	if err != nil {
		switch {
		case errors.Is(err, documents.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to start parse", nil)
		}
		return
	}

	ctx := WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
	job, err := h.Svc.Create(ctx, doc.ID, userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to start parse", nil)
		return
	}

	respond.JSON(c, http.StatusAccepted, gin.H{
		"parseId": job.ID,
		"status":  job.Status,
	})
}

func (h *Handler) getParse(c *gin.Context) {
	parseID := c.Param("id")
	if parseID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "parse id is required", nil)
		return
	}

	userID := middleware.UserIDFromContext(c)

	job, err := h.Svc.Get(c.Request.Context(), parseID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "parse not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch parse", nil)
		}
		return
	}
	if job.UserID != userID {
		respond.Error(c, http.StatusNotFound, "not_found", "parse not found", nil)
		return
	}

	resp := gin.H{
		"id":     job.ID,
		"status": job.Status,
	}
	if job.Status == StatusCompleted && job.Result != nil {
		resp["source"] = job.Source
		resp["result"] = job.Result
	}
	if job.Status == StatusFailed && job.ErrorMessage != nil {
		resp["error"] = *job.ErrorMessage
	}

	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) listParses(c *gin.Context) {
	if isGuest, ok := c.Get("isGuest"); ok {
		if guest, ok2 := isGuest.(bool); ok2 && guest {
			respond.Error(c, http.StatusUnauthorized, "login_required", "Login required to view history", nil)
			return
		}
	}

	userID := middleware.UserIDFromContext(c)

	limit := 20
	offset := 0

	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit < 0 {
		limit = 0
	}

	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	if offset < 0 {
		offset = 0
	}

	jobs, err := h.Svc.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list parses", nil)
		return
	}

	resp := make([]gin.H, 0, len(jobs))
	for _, job := range jobs {
		item := gin.H{
			"parseId":    job.ID,
			"documentId": job.DocumentID,
			"status":     job.Status,
			"createdAt":  job.CreatedAt,
		}
		if job.Status == StatusCompleted && job.Result != nil {
			item["source"] = job.Source
			if job.Result.Basics.Name != "" {
				item["name"] = job.Result.Basics.Name
			}
		}
		resp = append(resp, item)
	}

	respond.JSON(c, http.StatusOK, resp)
}
