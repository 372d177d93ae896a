package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ledgerpost/ledgerpost/internal/apperrors"
	portssvc "github.com/ledgerpost/ledgerpost/internal/core/ports/services"
	"github.com/ledgerpost/ledgerpost/internal/dto"
	"github.com/ledgerpost/ledgerpost/internal/middleware"
)

// journalEntryHandler handles HTTP requests for journal entries.
type journalEntryHandler struct {
	journalService portssvc.JournalEntrySvc
}

func newJournalEntryHandler(journalService portssvc.JournalEntrySvc) *journalEntryHandler {
	return &journalEntryHandler{journalService: journalService}
}

// respondJournalError maps service errors onto the wire contract. Validation
// failures become the 422 errors envelope; state conflicts become 409.
func respondJournalError(c *gin.Context, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var validationErr *apperrors.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusUnprocessableEntity, dto.NewErrorsResponse(validationErr.Errors))
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Journal entry not found"})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	default:
		logger.Error("Journal entry operation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
	}
}

// createEntry godoc
// @Summary Create a journal entry
// @Description Validates the submitted entry and persists it. All validation problems are returned together in one response.
// @Tags journal-entries
// @Accept json
// @Produce json
// @Param entry body dto.SaveJournalEntryRequest true "Journal entry payload"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} ErrorResponse "Malformed JSON"
// @Failure 401 {object} ErrorResponse
// @Failure 422 {object} dto.ErrorsResponse "Validation problems keyed by field path"
// @Router /journal-entries [post]
func (h *journalEntryHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.SaveJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind journal entry payload", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format"})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	entry, err := h.journalService.CreateEntry(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondJournalError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

// updateEntry godoc
// @Summary Update a draft journal entry
// @Description Revalidates and replaces a DRAFT entry. Omitting save_as_draft posts the entry in the same request.
// @Tags journal-entries
// @Accept json
// @Produce json
// @Param entryID path string true "Entry ID"
// @Param entry body dto.SaveJournalEntryRequest true "Journal entry payload"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Entry is not an editable draft"
// @Failure 422 {object} dto.ErrorsResponse
// @Router /journal-entries/{entryID} [put]
func (h *journalEntryHandler) updateEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")

	var req dto.SaveJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind journal entry payload", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	entry, err := h.journalService.UpdateEntry(c.Request.Context(), entryID, req, userID)
	if err != nil {
		respondJournalError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// getEntry godoc
// @Summary Get a journal entry
// @Description Retrieves a journal entry with its lines.
// @Tags journal-entries
// @Produce json
// @Param entryID path string true "Entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 404 {object} ErrorResponse
// @Router /journal-entries/{entryID} [get]
func (h *journalEntryHandler) getEntry(c *gin.Context) {
	entryID := c.Param("entryID")

	entry, err := h.journalService.GetEntryByID(c.Request.Context(), entryID)
	if err != nil {
		respondJournalError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// listEntries godoc
// @Summary List journal entries
// @Description Retrieves a token-paginated page of journal entries, newest first.
// @Tags journal-entries
// @Produce json
// @Param limit query int false "Page size (max 100)"
// @Param next_token query string false "Cursor from the previous page"
// @Param status query string false "Filter by lifecycle state (DRAFT, POSTED, REVERSED)"
// @Param include_lines query bool false "Include lines for each entry"
// @Success 200 {object} dto.ListJournalEntriesResponse
// @Router /journal-entries [get]
func (h *journalEntryHandler) listEntries(c *gin.Context) {
	params := dto.ListJournalEntriesParams{
		Status: c.Query("status"),
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			params.Limit = limit
		}
	}
	if token := c.Query("next_token"); token != "" {
		params.NextToken = &token
	}
	if includeLines, err := strconv.ParseBool(c.Query("include_lines")); err == nil {
		params.IncludeLines = includeLines
	}

	resp, err := h.journalService.ListEntries(c.Request.Context(), params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid next_token"})
			return
		}
		respondJournalError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// postEntry godoc
// @Summary Post a draft journal entry
// @Description Transitions a DRAFT entry to POSTED and applies account balances.
// @Tags journal-entries
// @Produce json
// @Param entryID path string true "Entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Entry is not a draft"
// @Router /journal-entries/{entryID}/post [post]
func (h *journalEntryHandler) postEntry(c *gin.Context) {
	entryID := c.Param("entryID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	entry, err := h.journalService.PostEntry(c.Request.Context(), entryID, userID)
	if err != nil {
		respondJournalError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// reverseEntry godoc
// @Summary Reverse a posted journal entry
// @Description Creates the mirror entry, links the pair, and marks the original REVERSED.
// @Tags journal-entries
// @Produce json
// @Param entryID path string true "Entry ID"
// @Success 201 {object} dto.JournalEntryResponse "The reversing entry"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Entry cannot be reversed"
// @Router /journal-entries/{entryID}/reverse [post]
func (h *journalEntryHandler) reverseEntry(c *gin.Context) {
	entryID := c.Param("entryID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	reversing, err := h.journalService.ReverseEntry(c.Request.Context(), entryID, userID)
	if err != nil {
		respondJournalError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(reversing))
}

// RegisterJournalEntryRoutes registers journal entry specific routes.
func RegisterJournalEntryRoutes(group *gin.RouterGroup, journalService portssvc.JournalEntrySvc) {
	h := newJournalEntryHandler(journalService)

	entries := group.Group("/journal-entries")
	{
		entries.POST("", h.createEntry)
		entries.GET("", h.listEntries)
		entries.GET("/:entryID", h.getEntry)
		entries.PUT("/:entryID", h.updateEntry)
		entries.POST("/:entryID/post", h.postEntry)
		entries.POST("/:entryID/reverse", h.reverseEntry)
	}
}
