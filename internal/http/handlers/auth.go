package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// POST /api/auth/login
//
// Single admin account configured through ADMIN_USERNAME and
// ADMIN_PASSWORD_HASH (bcrypt). Issues a 24h HS256 token.
func (a *API) Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	if a.Env.AdminUsername == "" || a.Env.AdminPasswordHash == "" || a.Env.JWTSecret == "" {
		RespondError(c, http.StatusServiceUnavailable, "admin login is not configured", nil)
		return
	}

	if req.Username != a.Env.AdminUsername ||
		bcrypt.CompareHashAndPassword([]byte(a.Env.AdminPasswordHash), []byte(req.Password)) != nil {
		RespondError(c, http.StatusUnauthorized, "invalid username or password", nil)
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  req.Username,
		"role": "admin",
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(a.Env.JWTSecret))
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to sign token", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      signed,
		"token_type": "bearer",
	})
}
