package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/freng35/simple-votings/internal/handlers"
)

// RegisterPublicRoutes wires the routes reachable without a token. Poll
// viewing and vote casting run under the optional-auth middleware so an
// authenticated viewer still gets identity-aware behavior.
func RegisterPublicRoutes(
	rg *gin.RouterGroup,
	pollHandler *handlers.PollHandler,
	voteHandler *handlers.VoteHandler,
	profileHandler *handlers.ProfileHandler,
) {
	{
		rg.GET("/polls", pollHandler.ListPolls)
		rg.GET("/polls/:id", pollHandler.GetPoll)
		rg.POST("/polls/:id/vote", voteHandler.CastVote)

		rg.GET("/profiles/:id", profileHandler.GetProfile)
	}
}

func RegisterPrivateRoutes(
	rg *gin.RouterGroup,
	pollHandler *handlers.PollHandler,
	engagementHandler *handlers.EngagementHandler,
	profileHandler *handlers.ProfileHandler,
) {
	{
		rg.POST("/polls", pollHandler.CreatePoll)
		rg.POST("/polls/:id/edit", pollHandler.EditPoll)
		rg.DELETE("/polls/:id", pollHandler.DeletePoll)

		rg.POST("/polls/:id/like", engagementHandler.ToggleLike)
		rg.POST("/polls/:id/comments", engagementHandler.AddComment)
		rg.POST("/polls/:id/reports", engagementHandler.FileReport)

		rg.GET("/reports", engagementHandler.ListReports)
		rg.POST("/reports/:id/close", engagementHandler.CloseReport)

		rg.POST("/profiles/:id", profileHandler.UpdateProfile)
	}
}

func RegisterAuthRoutes(rg *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	{
		rg.POST("/register", authHandler.Register)
		rg.POST("/login", authHandler.Login)
	}
}
