package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{ svc AuthService }

// StatusFunc maps an authentication error to an HTTP status and message.
type StatusFunc func(err error) (int, string)

func RegisterRoutes(r gin.IRoutes, svc AuthService, status StatusFunc) {
	h := &AuthHandler{svc: svc}
	r.POST("/auth/login", func(c *gin.Context) { h.Login(c, status) })
}

type LoginRequest struct {
	LoginType string `json:"loginType" binding:"required,oneof=owner student"`
	Mobile    string `json:"mobile" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	Role      string `json:"role"`
	StudentID string `json:"studentId,omitempty"`
}

// Login godoc
// @Summary  Exchange owner or student credentials for a bearer token
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body LoginRequest true "credentials"
// @Success  200 {object} LoginResponse
// @Router   /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context, status StatusFunc) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	token, p, err := h.svc.Login(c.Request.Context(), req.LoginType, req.Mobile, req.Password)
	if err != nil {
		code, msg := http.StatusUnauthorized, ErrAuthenticationFailed.Error()
		if status != nil {
			code, msg = status(err)
		}
		c.JSON(code, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{Token: token, Role: p.Role, StudentID: p.StudentID})
}
