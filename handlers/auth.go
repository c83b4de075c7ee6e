package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"foodrunner-api/apperror"
	"foodrunner-api/middleware"
	"foodrunner-api/models"
	"foodrunner-api/services"
)

type RegisterRequest struct {
	Name     string          `json:"name" binding:"required"`
	Email    string          `json:"email" binding:"required,email"`
	Password string          `json:"password" binding:"required,min=6"`
	Role     models.UserRole `json:"role"`
	Phone    string          `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateDetailsRequest struct {
	Name      *string              `json:"name"`
	Email     *string              `json:"email"`
	Phone     *string              `json:"phone"`
	Addresses []models.UserAddress `json:"addresses"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

type VerificationRequest struct {
	Status models.VerificationStatus `json:"status" binding:"required"`
}

// sendToken answers with the user and sets the token cookie alongside.
func (h *Handler) sendToken(c *gin.Context, status int, user *models.User, token string) {
	maxAge := int(h.tokens.Expiry() / time.Second)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, token, maxAge, "/", "", h.SecureCookies, true)
	c.JSON(status, Envelope{Success: true, Token: token, Data: user})
}

// Register creates a new customer or restaurant account
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, "register", err)
		return
	}
	user, token, err := h.auth.Register(c.Request.Context(), services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Role:     req.Role,
	})
	if err != nil {
		h.fail(c, "register", err)
		return
	}
	h.sendToken(c, http.StatusCreated, user, token)
}

// Login authenticates a user and returns a JWT
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, "login", err)
		return
	}
	user, token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, "login", err)
		return
	}
	h.sendToken(c, http.StatusOK, user, token)
}

// Logout revokes the current token and clears the cookie.
func (h *Handler) Logout(c *gin.Context) {
	if claims := middleware.GetClaims(c); claims != nil && claims.ExpiresAt != nil {
		if err := h.auth.Logout(c.Request.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
			h.fail(c, "logout", err)
			return
		}
	}
	c.SetCookie(middleware.TokenCookie, "none", -1, "/", "", h.SecureCookies, true)
	c.JSON(http.StatusOK, Envelope{Success: true, Data: gin.H{}})
}

// Me returns the authenticated user's profile
func (h *Handler) Me(c *gin.Context) {
	user, err := h.auth.Me(c.Request.Context(), middleware.GetPrincipal(c).UserID)
	if err != nil {
		h.fail(c, "get_me", err)
		return
	}
	ok(c, http.StatusOK, user)
}

func (h *Handler) UpdateDetails(c *gin.Context) {
	var req UpdateDetailsRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, "update_details", err)
		return
	}
	user, err := h.auth.UpdateDetails(c.Request.Context(), middleware.GetPrincipal(c).UserID, services.DetailsInput{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Addresses: req.Addresses,
	})
	if err != nil {
		h.fail(c, "update_details", err)
		return
	}
	ok(c, http.StatusOK, user)
}

func (h *Handler) UpdatePassword(c *gin.Context) {
	var req UpdatePasswordRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, "update_password", err)
		return
	}
	user, token, err := h.auth.UpdatePassword(c.Request.Context(), middleware.GetPrincipal(c).UserID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		h.fail(c, "update_password", err)
		return
	}
	h.sendToken(c, http.StatusOK, user, token)
}

// UploadDocument accepts a multipart "file" for one verification document.
func (h *Handler) UploadDocument(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		h.fail(c, "upload_document", apperror.InvalidInput("Please upload a file"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		h.fail(c, "upload_document", apperror.Wrap(err, "failed to read upload"))
		return
	}
	defer f.Close()

	kind := models.DocumentKind(c.Param("kind"))
	user, err := h.auth.UploadDocument(c.Request.Context(), middleware.GetPrincipal(c), kind, f)
	if err != nil {
		h.fail(c, "upload_document", err)
		return
	}
	ok(c, http.StatusOK, user)
}
