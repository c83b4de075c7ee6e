package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"foodrunner-api/middleware"
)

// SetVerification records the admin review of a user's documents
func (h *Handler) SetVerification(c *gin.Context) {
	var req VerificationRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, "set_verification", err)
		return
	}
	user, err := h.auth.SetVerification(c.Request.Context(), middleware.GetPrincipal(c), c.Param("id"), req.Status)
	if err != nil {
		h.fail(c, "set_verification", err)
		return
	}
	h.log.Info("documents_reviewed", requestID(c), "Verification status changed")
	ok(c, http.StatusOK, user)
}
