package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bazaarlane/admin-backend/internal/auth"
	"github.com/bazaarlane/admin-backend/internal/http/response"
	"github.com/bazaarlane/admin-backend/internal/platform/ctxutil"
	"github.com/bazaarlane/admin-backend/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// POST /api/login
func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	user, cookies, err := ah.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	for _, ck := range cookies {
		http.SetCookie(c.Writer, ck)
	}
	response.RespondOK(c, gin.H{"user": user})
}

// POST /api/logout
func (ah *AuthHandler) Logout(c *gin.Context) {
	access, _ := c.Cookie(auth.SessionCookieName)
	cookies, err := ah.authService.Logout(c.Request.Context(), access)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	for _, ck := range cookies {
		http.SetCookie(c.Writer, ck)
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// POST /api/generate-token
// Mints a scoped API token for server-to-server callers that already know
// the user id. Lives outside the session middleware on purpose.
func (ah *AuthHandler) GenerateToken(c *gin.Context) {
	var req struct {
		UserID string `json:"userId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	token, err := ah.authService.GenerateToken(c.Request.Context(), userID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"token": token})
}

// POST /api/setup
func (ah *AuthHandler) Setup(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		FullName string `json:"full_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	user, err := ah.authService.BootstrapAdmin(c.Request.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"user": user})
}

// GET /api/profile
func (ah *AuthHandler) Profile(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	user, err := ah.authService.Profile(c.Request.Context(), rd.UserID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"user": user})
}
