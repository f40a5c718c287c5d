package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/agencyops/renewal-engine/internal/api/middleware"
	"github.com/agencyops/renewal-engine/internal/api/shared/constants"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, authenticator *middleware.Authenticator) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)

	tenant := router.Group(constants.API_VERSION_PREFIX + "/tenants/:tenant_id")
	auth := middleware.Auth(authenticator)
	{
		tenant.POST("/baselines", auth, handler.BuildBaseline)
		tenant.POST("/archives", auth, handler.ArchiveTransactions)

		tenant.POST("/comparisons", auth, handler.CreateComparison)
		tenant.GET("/comparisons/:id", handler.GetComparison)
		// Verification may call providers and write the result
		tenant.GET("/comparisons/:id/property-verification", auth, handler.GetPropertyVerification)

		tenant.GET("/comparisons/:id/notes", handler.GetNotes)
		tenant.POST("/comparisons/:id/notes", auth, handler.PostNote)

		tenant.POST("/comparisons/:id/decision", auth, handler.ApplyDecision)
		tenant.PUT("/comparisons/:id/checks/:rule_id/review", auth, handler.ReviewCheck)
	}
}
