package routes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"social-studio-backend/internal/ai"
	"social-studio-backend/internal/store"
	"social-studio-backend/models"
	"social-studio-backend/services"
	"social-studio-backend/utils"
)

// SetupPostRoutes registers post generation, finalize and listing.
func SetupPostRoutes(router *gin.Engine, st *store.Store, generator *services.PostGenerator) {
	posts := router.Group("/posts")

	posts.POST("/create", handleCreatePosts(generator))
	posts.DELETE("/remove", handleRemovePost(st))
	posts.POST("/finalize-post", handleFinalizePosts(generator))
	posts.GET("/get-all-posts", handleGetAllPosts(st))
}

func handleCreatePosts(generator *services.PostGenerator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CreatePostRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request body", err.Error())
			return
		}

		posts, err := generator.Generate(c.Request.Context(), req)
		if err != nil {
			respondPipelineError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"posts": posts})
	}
}

// respondPipelineError maps pipeline failures onto the error taxonomy:
// unresolved ids, missing credentials, malformed model output and upstream
// service failures each get their own code.
func respondPipelineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		utils.RespondWithNotFound(c, err.Error())
	case errors.Is(err, ai.ErrMissingCredential):
		utils.RespondWithError(c, http.StatusInternalServerError, "configuration_error", err.Error(), nil)
	case errors.Is(err, ai.ErrBadOutput):
		utils.RespondWithError(c, http.StatusBadGateway, "validation_failure", err.Error(), nil)
	case errors.Is(err, ai.ErrUpstream):
		utils.RespondWithUpstreamError(c, err.Error(), nil)
	default:
		utils.RespondWithInternalError(c, "Post generation failed", err.Error())
	}
}

func handleRemovePost(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.RemovePostRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request body", err.Error())
			return
		}

		if err := st.Posts.Delete(req.PostID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				utils.RespondWithNotFound(c, "Post ID not found")
				return
			}
			utils.RespondWithInternalError(c, "Failed to remove post", err.Error())
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "Post deleted successfully"})
	}
}

func handleFinalizePosts(generator *services.PostGenerator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.FinalizePostRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request body", err.Error())
			return
		}

		finalized, err := generator.Finalize(c.Request.Context(), req.ClientID, req.PostIDs)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				utils.RespondWithNotFound(c, "No matching post IDs found")
				return
			}
			utils.RespondWithInternalError(c, "Failed to finalize posts", err.Error())
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "Posts finalized successfully",
			"finalized": len(finalized),
		})
	}
}

func handleGetAllPosts(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		posts, err := st.Posts.List()
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to list posts", err.Error())
			return
		}
		c.JSON(http.StatusOK, gin.H{"posts": posts})
	}
}
