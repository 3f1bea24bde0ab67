package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/freng35/simple-votings/internal/entity"
	"github.com/freng35/simple-votings/internal/middleware"
	"github.com/freng35/simple-votings/internal/services"
)

type ProfileHandler struct {
	profiles *services.Profiles
}

func NewProfileHandler(profiles *services.Profiles) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

type UpdateProfileRequest struct {
	Job       string `json:"job"`
	Biography string `json:"biography"`
	Gender    string `json:"gender"`
	Country   string `json:"country"`
	Birth     string `json:"birth"`
	ShowEmail bool   `json:"show_email"`
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	view, err := h.profiles.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": view})
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	requesterID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	profile := entity.Profile{
		Job:       req.Job,
		Biography: req.Biography,
		Gender:    req.Gender,
		Country:   req.Country,
		ShowEmail: req.ShowEmail,
	}
	if req.Birth != "" {
		birth, err := time.Parse("2006-01-02", req.Birth)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid birth date"})
			return
		}
		profile.Birth = &birth
	}

	if err := h.profiles.UpdateProfile(c.Request.Context(), userID, requesterID, profile); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user_id": userID})
}
