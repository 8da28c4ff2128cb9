package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/recipecart/backend/internal/domain"
	"github.com/recipecart/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	resolver *usecase.ResolutionService
}

// NewHandler creates a new HTTP handler
func NewHandler(resolver *usecase.ResolutionService) *Handler {
	return &Handler{resolver: resolver}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "recipecart-backend",
		"version": "1.0.0",
	})
}

// resolveRequest carries one submission: a raw text blob, or the
// pre-extracted ingredient lines for URL input plus an optional title.
type resolveRequest struct {
	Text  string   `json:"text"`
	Lines []string `json:"lines"`
	Title string   `json:"title"`
}

// selectionRequest changes one record's selection during review.
// candidateIndex null excludes the record from commit.
type selectionRequest struct {
	CandidateIndex *int `json:"candidateIndex"`
}

// Resolve runs the full extract/match/classify pipeline and opens a
// review session.
func (h *Handler) Resolve(c *gin.Context) {
	if h.resolver == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Resolution service not available"})
		return
	}

	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if req.Text == "" && len(req.Lines) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Either text or lines is required"})
		return
	}

	session, err := h.resolver.Resolve(c.Request.Context(), usecase.ResolveInput{
		Text:  req.Text,
		Lines: req.Lines,
		Title: req.Title,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNothingToParse) {
			// Distinct from "every record is not_found" so the UI can
			// say "nothing to parse" instead of "nothing matched".
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "No ingredients could be extracted from the input",
				"code":  "nothing_to_parse",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, session)
}

// GetSession returns the current state of one resolution session.
func (h *Handler) GetSession(c *gin.Context) {
	session, err := h.resolver.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// UpdateSelection overrides the selected candidate for one record.
func (h *Handler) UpdateSelection(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid record index"})
		return
	}

	var req selectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	session, err := h.resolver.UpdateSelection(c.Request.Context(), c.Param("id"), index, req.CandidateIndex)
	if err != nil {
		h.writeSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// Commit issues cart adds for every selected record and reports per-item
// results. Partial success comes back as 200 with added/failed counts.
func (h *Handler) Commit(c *gin.Context) {
	result, err := h.resolver.Commit(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Cancel discards the session's batch.
func (h *Handler) Cancel(c *gin.Context) {
	session, err := h.resolver.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// writeSessionError maps domain errors onto HTTP statuses.
func (h *Handler) writeSessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found or expired"})
	case errors.Is(err, domain.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "Operation not allowed in the session's current state"})
	case errors.Is(err, domain.ErrRecordOutOfRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Record or candidate index out of range"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
