package routes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"social-studio-backend/internal/store"
	"social-studio-backend/models"
	"social-studio-backend/utils"
)

// SetupCategoryTopicRoutes registers the category and topic surface.
func SetupCategoryTopicRoutes(router *gin.Engine, st *store.Store) {
	categories := router.Group("/categories")

	categories.POST("/create-category", handleCreateCategory(st))
	categories.POST("/create-topic", handleCreateTopic(st))
	categories.GET("/search-topics", handleSearchTopics(st))
	categories.GET("/get-all-categories", handleGetAllCategories(st))
	categories.GET("/get-all-topics", handleGetAllTopics(st))
	categories.DELETE("/remove-topic", handleRemoveTopic(st))
	categories.DELETE("/remove-category", handleRemoveCategory(st))
}

func handleCreateCategory(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CreateCategoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request body", err.Error())
			return
		}

		cat, err := st.Categories.Create(req.CategoryName)
		if err != nil {
			if errors.Is(err, store.ErrDuplicateName) {
				utils.RespondWithConflict(c, "Category '"+req.CategoryName+"' already exists")
				return
			}
			utils.RespondWithInternalError(c, "Failed to create category", err.Error())
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"category_id": cat.ID,
			"status":      "Category created successfully",
		})
	}
}

func handleCreateTopic(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CreateTopicRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request body", err.Error())
			return
		}

		exists, err := st.Categories.Exists(req.CategoryID)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to check category", err.Error())
			return
		}
		if !exists {
			utils.RespondWithNotFound(c, "Category not found")
			return
		}

		top, err := st.Topics.Create(req.CategoryID, req.Title, req.Description)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to create topic", err.Error())
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"topic_id": top.ID,
			"status":   "Topic created successfully",
		})
	}
}

func handleSearchTopics(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		categoryID := c.Query("category_id")
		if categoryID == "" {
			utils.RespondWithBadRequest(c, "category_id query parameter is required", nil)
			return
		}

		topics, err := st.Topics.ListByCategory(categoryID)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to search topics", err.Error())
			return
		}

		results := make([]gin.H, 0, len(topics))
		for _, t := range topics {
			results = append(results, gin.H{
				"topic_id":    t.ID,
				"title":       t.Title,
				"description": t.Description,
			})
		}
		c.JSON(http.StatusOK, gin.H{"topics": results})
	}
}

func handleGetAllCategories(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		cats, err := st.Categories.List()
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to list categories", err.Error())
			return
		}
		c.JSON(http.StatusOK, gin.H{"categories": cats})
	}
}

func handleGetAllTopics(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		topics, err := st.Topics.List()
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to list topics", err.Error())
			return
		}
		c.JSON(http.StatusOK, gin.H{"topics": topics})
	}
}

func handleRemoveTopic(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		topicID := c.Query("topic_id")
		if topicID == "" {
			utils.RespondWithBadRequest(c, "topic_id query parameter is required", nil)
			return
		}

		if err := st.Topics.Delete(topicID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				utils.RespondWithNotFound(c, "Topic ID not found")
				return
			}
			utils.RespondWithInternalError(c, "Failed to remove topic", err.Error())
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "Topic removed successfully"})
	}
}

func handleRemoveCategory(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		categoryID := c.Query("category_id")
		if categoryID == "" {
			utils.RespondWithBadRequest(c, "category_id query parameter is required", nil)
			return
		}

		if err := st.Categories.Delete(categoryID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				utils.RespondWithNotFound(c, "Category ID not found")
				return
			}
			utils.RespondWithInternalError(c, "Failed to remove category", err.Error())
			return
		}

		// Deleting a category cascades to its topics.
		if err := st.Topics.DeleteByCategory(categoryID); err != nil {
			utils.RespondWithInternalError(c, "Category removed but topic cascade failed", err.Error())
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "Category and all topics removed successfully"})
	}
}
