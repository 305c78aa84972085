package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RunHandler serves saved-run endpoints.
type RunHandler struct {
	svc RunService
	log *logrus.Logger
}

// NewRunHandler creates a RunHandler with the given service and logger.
func NewRunHandler(svc RunService, log *logrus.Logger) *RunHandler {
	return &RunHandler{svc: svc, log: log}
}

// List handles GET /api/v1/runs.
func (h *RunHandler) List(c *gin.Context) {
	limit := parseInt(c.DefaultQuery("limit", "50"), 50)
	offset := parseOffset(c.DefaultQuery("offset", "0"))

	runs, hasMore, err := h.svc.ListRuns(c.Request.Context(), limit, offset)
	if err != nil {
		respondServiceError(c, h.log, "listing runs", err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"runs": runs, "has_more": hasMore})
}

// Get handles GET /api/v1/runs/:id.
func (h *RunHandler) Get(c *gin.Context) {
	id, ok := parseRunID(c)
	if !ok {
		return
	}

	run, err := h.svc.GetRun(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.log, "getting run", err)

		return
	}

	c.JSON(http.StatusOK, run)
}

// Delete handles DELETE /api/v1/runs/:id.
func (h *RunHandler) Delete(c *gin.Context) {
	id, ok := parseRunID(c)
	if !ok {
		return
	}

	if err := h.svc.DeleteRun(c.Request.Context(), id); err != nil {
		respondServiceError(c, h.log, "deleting run", err)

		return
	}

	h.log.WithFields(logrus.Fields{
		"action":     "runs.delete",
		"run_id":     id,
		"request_id": c.GetString("request_id"),
	}).Info("audit")

	c.Status(http.StatusNoContent)
}

func parseRunID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "run id must be a UUID")

		return uuid.Nil, false
	}

	return id, true
}
