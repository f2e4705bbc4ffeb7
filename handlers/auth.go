package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"campusfeed/middleware"
	"campusfeed/models"
	"campusfeed/store"
	"campusfeed/validation"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type SignupRequest struct {
	IDNumber string      `json:"idNumber" binding:"omitempty,len=8,number"`
	Name     string      `json:"name" binding:"required"`
	Email    string      `json:"email" binding:"required,email"`
	Password string      `json:"password" binding:"required,min=6"`
	Role     models.Role `json:"role" binding:"required,oneof=Student Teacher Admin"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Validation failed", "errors": validation.Details(err)})
		return
	}

	// idNumber goes with the Student role and nothing else.
	if req.Role == models.RoleStudent && req.IDNumber == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID number is required for Students"})
		return
	}
	if req.Role != models.RoleStudent && req.IDNumber != "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID number is only allowed for Students"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if _, err := h.store.UserByEmail(ctx, strings.ToLower(req.Email)); err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "User with this email already exists!"})
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		h.log.WithError(err).Error("signup: email lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	if req.Role == models.RoleStudent {
		if _, err := h.store.UserByIDNumber(ctx, req.IDNumber); err == nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "User with this idNumber already exists!"})
			return
		} else if !errors.Is(err, store.ErrNotFound) {
			h.log.WithError(err).Error("signup: idNumber lookup failed")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.log.WithError(err).Error("signup: password hash failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	user := models.User{
		ID:        primitive.NewObjectID(),
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.ToLower(req.Email),
		Password:  string(hashed),
		Role:      req.Role,
		CreatedAt: time.Now().UTC(),
	}
	if req.Role == models.RoleStudent {
		idNumber := req.IDNumber
		user.IDNumber = &idNumber
	}

	if err := h.store.CreateUser(ctx, &user); err != nil {
		// Unique indexes back up the lookups above under concurrency.
		if errors.Is(err, store.ErrDuplicate) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "User with this email or idNumber already exists!"})
			return
		}
		h.log.WithError(err).Error("signup: insert failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User signed up successfully!",
		"user":    user,
	})
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Validation failed", "errors": validation.Details(err)})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	// Identical response for unknown email and wrong password.
	user, err := h.store.UserByEmail(ctx, strings.ToLower(req.Email))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
		return
	}
	if err != nil {
		h.log.WithError(err).Error("login: email lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
		return
	}

	token, err := middleware.NewToken(user.ID.Hex(), user.Role)
	if err != nil {
		h.log.WithError(err).Error("login: token signing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User Logged in successfully!",
		"token":   token,
		"user":    user.Summary(),
	})
}

func (h *Handler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.store.UserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}
	if err != nil {
		h.log.WithError(err).Error("me: user lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user.Summary()})
}

// ListUsers is Admin-gated in the router.
func (h *Handler) ListUsers(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	users, err := h.store.ListUsers(ctx)
	if err != nil {
		h.log.WithError(err).Error("list users failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}
