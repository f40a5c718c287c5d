package rest

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/agencyops/renewal-engine/internal/api/middleware"
	"github.com/agencyops/renewal-engine/internal/api/shared/dto"
	"github.com/agencyops/renewal-engine/internal/api/shared/executor"
)

// Handler defines the interface for REST API handlers
//
//go:generate mockgen -source=handler.go -destination=../../mocks/api_handler.go -package=mocks -mock_names=Handler=MockAPIHandler
type Handler interface {
	// BuildBaseline reconstructs the current-term snapshot of a policy
	// POST /api/v1/tenants/:tenant_id/baselines
	BuildBaseline(c *gin.Context)

	// ArchiveTransactions stores non-renewal AL3 transactions
	// POST /api/v1/tenants/:tenant_id/archives
	ArchiveTransactions(c *gin.Context)

	// CreateComparison creates or upgrades a renewal comparison
	// POST /api/v1/tenants/:tenant_id/comparisons
	// Responds 201 for a new or upgraded row and 200 for a duplicate
	CreateComparison(c *gin.Context)

	// GetComparison retrieves a comparison
	// GET /api/v1/tenants/:tenant_id/comparisons/:id
	GetComparison(c *gin.Context)

	// GetPropertyVerification returns the cached or freshly computed verification
	// GET /api/v1/tenants/:tenant_id/comparisons/:id/property-verification
	GetPropertyVerification(c *gin.Context)

	// GetNotes returns the notes feed
	// GET /api/v1/tenants/:tenant_id/comparisons/:id/notes
	GetNotes(c *gin.Context)

	// PostNote appends a note and returns the feed
	// POST /api/v1/tenants/:tenant_id/comparisons/:id/notes
	PostNote(c *gin.Context)

	// ApplyDecision records an agent decision
	// POST /api/v1/tenants/:tenant_id/comparisons/:id/decision
	ApplyDecision(c *gin.Context)

	// ReviewCheck marks a check result reviewed or not
	// PUT /api/v1/tenants/:tenant_id/comparisons/:id/checks/:rule_id/review
	ReviewCheck(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	executor executor.Executor
}

// NewHandler creates a new REST API handler using the shared executor
func NewHandler(exec executor.Executor) Handler {
	return &handler{
		executor: exec,
	}
}

// pathParams reads and checks the tenant and comparison ids of the route
func pathParams(c *gin.Context) (tenantID, comparisonID string, ok bool) {
	tenantID = strings.TrimSpace(c.Param("tenant_id"))
	if tenantID == "" {
		respondBadRequest(c, "Tenant ID is required")
		return "", "", false
	}
	comparisonID = strings.TrimSpace(c.Param("id"))
	if _, hasID := c.Params.Get("id"); hasID && comparisonID == "" {
		respondBadRequest(c, "Comparison ID is required")
		return "", "", false
	}
	return tenantID, comparisonID, true
}

// bindJSON decodes and validates a request body
func bindJSON(c *gin.Context, req interface{ Validate() error }) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return false
	}
	if err := req.Validate(); err != nil {
		respondError(c, err, "Invalid request body")
		return false
	}
	return true
}

func (h *handler) BuildBaseline(c *gin.Context) {
	tenantID, _, ok := pathParams(c)
	if !ok {
		return
	}

	var req dto.BuildBaselineRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.executor.BuildBaseline(c.Request.Context(), tenantID, req)
	if err != nil {
		respondError(c, err, "Failed to build baseline")
		return
	}
	if result == nil {
		respondNotFound(c, "No policy term found", req.PolicyNumber)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *handler) ArchiveTransactions(c *gin.Context) {
	tenantID, _, ok := pathParams(c)
	if !ok {
		return
	}

	var req dto.ArchiveTransactionsRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.executor.ArchiveTransactions(c.Request.Context(), tenantID, req)
	if err != nil {
		respondError(c, err, "Failed to archive transactions")
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *handler) CreateComparison(c *gin.Context) {
	tenantID, _, ok := pathParams(c)
	if !ok {
		return
	}

	var req dto.CreateComparisonRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.executor.CreateComparison(c.Request.Context(), tenantID, req)
	if err != nil {
		respondError(c, err, "Failed to create comparison")
		return
	}

	status := http.StatusCreated
	if result.Duplicate {
		status = http.StatusOK
	}
	c.JSON(status, result)
}

func (h *handler) GetComparison(c *gin.Context) {
	tenantID, comparisonID, ok := pathParams(c)
	if !ok {
		return
	}

	result, err := h.executor.GetComparison(c.Request.Context(), tenantID, comparisonID)
	if err != nil {
		respondError(c, err, "Failed to get comparison")
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *handler) GetPropertyVerification(c *gin.Context) {
	tenantID, comparisonID, ok := pathParams(c)
	if !ok {
		return
	}

	result, err := h.executor.GetPropertyVerification(c.Request.Context(), tenantID, comparisonID)
	if err != nil {
		respondError(c, err, "Failed to verify property")
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *handler) GetNotes(c *gin.Context) {
	tenantID, comparisonID, ok := pathParams(c)
	if !ok {
		return
	}

	result, err := h.executor.GetNotes(c.Request.Context(), tenantID, comparisonID)
	if err != nil {
		respondError(c, err, "Failed to get notes")
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *handler) PostNote(c *gin.Context) {
	tenantID, comparisonID, ok := pathParams(c)
	if !ok {
		return
	}

	var req dto.PostNoteRequest
	if !bindJSON(c, &req) {
		return
	}

	author := middleware.AuthSubject(c, req.Author)
	result, err := h.executor.PostNote(c.Request.Context(), tenantID, comparisonID, author, req)
	if err != nil {
		respondError(c, err, "Failed to post note")
		return
	}

	c.JSON(http.StatusCreated, result)
}

func (h *handler) ApplyDecision(c *gin.Context) {
	tenantID, comparisonID, ok := pathParams(c)
	if !ok {
		return
	}

	var req dto.DecisionRequest
	if !bindJSON(c, &req) {
		return
	}

	agentID := middleware.AuthSubject(c, req.AgentID)
	if agentID == "" {
		respondValidationError(c, "agentId is required when authenticating with an API key")
		return
	}

	result, err := h.executor.ApplyDecision(c.Request.Context(), tenantID, comparisonID, agentID, req)
	if err != nil {
		respondError(c, err, "Failed to apply decision")
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *handler) ReviewCheck(c *gin.Context) {
	tenantID, comparisonID, ok := pathParams(c)
	if !ok {
		return
	}
	ruleID := strings.TrimSpace(c.Param("rule_id"))
	if ruleID == "" {
		respondBadRequest(c, "Rule ID is required")
		return
	}

	var req dto.ReviewCheckRequest
	if !bindJSON(c, &req) {
		return
	}

	reviewerID := middleware.AuthSubject(c, req.ReviewerID)
	result, err := h.executor.ReviewCheck(c.Request.Context(), tenantID, comparisonID, ruleID, reviewerID, req)
	if err != nil {
		respondError(c, err, "Failed to review check")
		return
	}

	c.JSON(http.StatusOK, result)
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{Status: "ok"})
}
