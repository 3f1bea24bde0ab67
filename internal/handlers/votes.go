package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/freng35/simple-votings/internal/middleware"
	"github.com/freng35/simple-votings/internal/services"
)

type VoteHandler struct {
	votes *services.Votes
}

func NewVoteHandler(votes *services.Votes) *VoteHandler {
	return &VoteHandler{votes: votes}
}

type CastVoteRequest struct {
	OptionID int64 `json:"option_id" binding:"required"`
}

// CastVote accepts a cast for anyone. The ledger silently drops casts on
// closed polls and duplicate casts, and this endpoint answers 200 either
// way, so the response never reveals whether the vote was recorded.
func (h *VoteHandler) CastVote(c *gin.Context) {
	var req CastVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	pollID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid poll id"})
		return
	}

	if err := h.votes.CastVote(c.Request.Context(), pollID, req.OptionID, middleware.RequestIdentity(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"poll_id": pollID})
}
