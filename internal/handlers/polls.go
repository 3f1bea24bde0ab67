package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/freng35/simple-votings/internal/middleware"
	"github.com/freng35/simple-votings/internal/services"
)

type PollHandler struct {
	polls *services.Polls
}

func NewPollHandler(polls *services.Polls) *PollHandler {
	return &PollHandler{polls: polls}
}

// PollRequest is the create/edit payload. The booleans are literal values:
// the form-style "checkbox present means true" resolution happens on the
// client, the API receives the resolved configuration.
type PollRequest struct {
	Question       string   `json:"question" binding:"required"`
	Options        []string `json:"options" binding:"required"`
	EndDate        string   `json:"end_date"`
	AllowMultiple  bool     `json:"allow_multiple"`
	AllowAnonymous bool     `json:"allow_anonymous"`
}

func (r PollRequest) toInput() (services.PollInput, error) {
	input := services.PollInput{
		Question:       r.Question,
		Options:        r.Options,
		AllowMultiple:  r.AllowMultiple,
		AllowAnonymous: r.AllowAnonymous,
	}

	if r.EndDate != "" {
		endDate, err := time.Parse("2006-01-02", r.EndDate)
		if err != nil {
			return services.PollInput{}, err
		}
		input.EndDate = &endDate
	}

	return input, nil
}

func (h *PollHandler) CreatePoll(c *gin.Context) {
	var req PollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	input, err := req.toInput()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end date"})
		return
	}

	pollID, err := h.polls.CreatePoll(c.Request.Context(), userID, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"poll_id": pollID})
}

func (h *PollHandler) GetPoll(c *gin.Context) {
	pollID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid poll id"})
		return
	}

	details, err := h.polls.GetPoll(c.Request.Context(), pollID, middleware.RequestIdentity(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"poll": details})
}

func (h *PollHandler) ListPolls(c *gin.Context) {
	polls, err := h.polls.ListPolls(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"polls": polls})
}

func (h *PollHandler) EditPoll(c *gin.Context) {
	var req PollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	pollID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid poll id"})
		return
	}

	input, err := req.toInput()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end date"})
		return
	}

	if err := h.polls.EditPoll(c.Request.Context(), pollID, userID, input); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"poll_id": pollID})
}

func (h *PollHandler) DeletePoll(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	pollID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid poll id"})
		return
	}

	if err := h.polls.DeletePoll(c.Request.Context(), pollID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "poll deleted"})
}
