package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/typegraph/internal/models"
)

// maxBatchNames caps how many names one batch request may carry.
const maxBatchNames = 100

// AncestryHandler serves resolution, lookup, and discovery endpoints.
type AncestryHandler struct {
	svc AncestryService
	log *logrus.Logger
}

// NewAncestryHandler creates an AncestryHandler with the given service and logger.
func NewAncestryHandler(svc AncestryService, log *logrus.Logger) *AncestryHandler {
	return &AncestryHandler{svc: svc, log: log}
}

type resolveResponse struct {
	Name string      `json:"name"`
	ID   models.Node `json:"id"`
}

type lookupResponse struct {
	Node    models.Node   `json:"node"`
	Kind    string        `json:"kind"`
	Results []models.Node `json:"results"`
}

type batchRequest struct {
	Names        []string `json:"names" binding:"required"`
	Raw          bool     `json:"raw"`
	Disambiguate bool     `json:"disambiguate"`
}

type batchResponse struct {
	Results []*models.Result `json:"results"`
}

// Resolve handles GET /api/v1/resolve?name=.
func (h *AncestryHandler) Resolve(c *gin.Context) {
	req := models.DiscoverRequest{Name: c.Query("name")}
	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())

		return
	}

	id, err := h.svc.Resolve(c.Request.Context(), req.Name)
	if err != nil {
		respondServiceError(c, h.log, "resolving name", err)

		return
	}

	c.JSON(http.StatusOK, resolveResponse{Name: req.Name, ID: id})
}

// Lookup handles GET /api/v1/lookup/:kind?node=.
func (h *AncestryHandler) Lookup(c *gin.Context) {
	kind := c.Param("kind")
	node := c.Query("node")

	results, err := h.svc.Lookup(c.Request.Context(), kind, node)
	if err != nil {
		respondServiceError(c, h.log, "looking up "+kind, err)

		return
	}

	c.JSON(http.StatusOK, lookupResponse{Node: node, Kind: kind, Results: results})
}

// Discover handles GET /api/v1/ancestry?name=&raw=&disambiguate=&save=.
func (h *AncestryHandler) Discover(c *gin.Context) {
	req, ok := bindDiscoverRequest(c)
	if !ok {
		return
	}

	resp, err := h.svc.Discover(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, h.log, "discovering ancestry", err)

		return
	}

	h.log.WithFields(logrus.Fields{
		"action": "ancestry.discover",
		"name":   req.Name,
		"nodes":  len(resp.Result.Nodes),
		"saved":  resp.RunID != nil,
	}).Info("audit")

	c.JSON(http.StatusOK, resp)
}

// Batch handles POST /api/v1/ancestry/batch.
func (h *AncestryHandler) Batch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	if len(req.Names) == 0 || len(req.Names) > maxBatchNames {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, fmt.Sprintf("names must hold between 1 and %d entries", maxBatchNames))

		return
	}

	results, err := h.svc.DiscoverBatch(c.Request.Context(), req.Names, req.Raw, req.Disambiguate)
	if err != nil {
		respondServiceError(c, h.log, "discovering batch", err)

		return
	}

	h.log.WithFields(logrus.Fields{"action": "ancestry.batch", "count": len(req.Names)}).Info("audit")

	c.JSON(http.StatusOK, batchResponse{Results: results})
}

// bindDiscoverRequest reads and validates the discovery query parameters, writing a 400 on failure.
func bindDiscoverRequest(c *gin.Context) (models.DiscoverRequest, bool) {
	req := models.DiscoverRequest{Name: c.Query("name")}

	for key, dst := range map[string]*bool{
		"raw":          &req.Raw,
		"disambiguate": &req.AllowDisambiguation,
		"save":         &req.Save,
	} {
		v, err := queryBool(c, key)
		if err != nil {
			respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, key+" must be a boolean")

			return req, false
		}

		*dst = v
	}

	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())

		return req, false
	}

	return req, true
}
