package v1

import (
	"errors"
	"log"
	"net/http"

	"blogbox/api/v1/request"
	"blogbox/internal/metrics"
	"blogbox/model"
	"blogbox/service"

	"github.com/gin-gonic/gin"
)

// UserAPI exposes HTTP handlers for the registration/login flow.
type UserAPI struct {
	service *service.UserService
}

// NewUserAPI wires the service layer into the HTTP handlers.
func NewUserAPI(s *service.UserService) *UserAPI {
	return &UserAPI{service: s}
}

// Register handles new account creation.
func (u *UserAPI) Register(c *gin.Context) {
	var req request.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user := &model.User{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}
	if err := u.service.Register(user); err != nil {
		if errors.Is(err, service.ErrUserExists) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user already exists"})
			return
		}
		log.Printf("Error registering user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error registering user"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    user,
	})
}

// Login validates credentials and returns the token plus the user id.
func (u *UserAPI) Login(c *gin.Context) {
	var req request.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.IncLogin("bad_request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, token, err := u.service.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			metrics.IncLogin("not_found")
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case errors.Is(err, service.ErrInvalidPassword):
			metrics.IncLogin("unauthorized")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid password"})
		default:
			metrics.IncLogin("internal_error")
			log.Printf("Error logging in: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error logging in"})
		}
		return
	}
	metrics.IncLogin("success")
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"userId":  user.ID,
	})
}
