package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/autolib/autolib/internal/auth"
)

// AuthController handles registration and login endpoints.
type AuthController struct {
	service *auth.Service
}

// NewAuthController creates a new AuthController.
func NewAuthController(service *auth.Service) *AuthController {
	return &AuthController{service: service}
}

type registerRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type registerResponse struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Message  string `json:"message"`
}

// Register creates a new library member.
func (ac *AuthController) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	user, err := ac.service.Register(req.Username, req.Password, req.ConfirmPassword)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrFieldsRequired),
			errors.Is(err, auth.ErrPasswordMismatch),
			errors.Is(err, auth.ErrUsernameTaken):
			respondBadRequest(c, err.Error())
		default:
			respondInternalError(c, err, "register")
		}
		return
	}

	c.JSON(http.StatusCreated, registerResponse{
		UserID:   user.ID,
		Username: user.Username,
		Message:  "User registered successfully",
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
}

// Login checks credentials and returns the member's identity.
func (ac *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	user, err := ac.service.Authenticate(req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrCredentialsRequired):
			respondBadRequest(c, err.Error())
		case errors.Is(err, auth.ErrInvalidCredentials):
			respondUnauthorized(c, err.Error())
		default:
			respondInternalError(c, err, "login")
		}
		return
	}

	c.JSON(http.StatusOK, loginResponse{
		UserID:   user.ID,
		Username: user.Username,
	})
}
