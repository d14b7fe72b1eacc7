package routes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"social-studio-backend/internal/ai"
	"social-studio-backend/internal/store"
	"social-studio-backend/services"
	"social-studio-backend/utils"
)

// SetupImageRoutes registers the image upload/search surface.
func SetupImageRoutes(router *gin.Engine, st *store.Store, host *services.ImageHost, maxUploadSize int64) {
	images := router.Group("/images")

	images.POST("/upload", handleUploadImage(st, host, maxUploadSize))
	images.GET("/search", handleSearchImages(st))
	images.DELETE("/remove", handleRemoveImage(st))
}

func handleUploadImage(st *store.Store, host *services.ImageHost, maxUploadSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			utils.RespondWithBadRequest(c, "file form field is required", err.Error())
			return
		}
		imageName := c.PostForm("image_name")
		clientID := c.PostForm("client_id")
		if imageName == "" || clientID == "" {
			utils.RespondWithBadRequest(c, "image_name and client_id form fields are required", nil)
			return
		}
		if fileHeader.Size > maxUploadSize {
			utils.RespondWithBadRequest(c, "file exceeds the upload size limit", nil)
			return
		}

		exists, err := st.Clients.Exists(clientID)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to check client", err.Error())
			return
		}
		if !exists {
			utils.RespondWithBadRequest(c, "Client ID "+clientID+" does not exist", nil)
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to open uploaded file", err.Error())
			return
		}
		defer file.Close()

		url, err := host.Upload(c.Request.Context(), imageName, file)
		if err != nil {
			if errors.Is(err, ai.ErrMissingCredential) {
				utils.RespondWithInternalError(c, "Image host API key not configured", nil)
				return
			}
			utils.RespondWithInternalError(c, "Image upload failed", err.Error())
			return
		}

		img, err := st.Images.Create(imageName, url, clientID)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to save image record", err.Error())
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"image_id": img.ID,
			"url":      img.URL,
			"status":   "Image uploaded and saved successfully",
		})
	}
}

func handleSearchImages(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		imageID := c.Query("image_id")
		imageName := c.Query("image_name")
		if imageID == "" && imageName == "" {
			utils.RespondWithBadRequest(c, "Provide at least image_id or image_name for search", nil)
			return
		}

		results, err := st.Images.Search(imageID, imageName)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to search images", err.Error())
			return
		}
		c.JSON(http.StatusOK, gin.H{"results": results})
	}
}

func handleRemoveImage(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		imageID := c.Query("image_id")
		if imageID == "" {
			utils.RespondWithBadRequest(c, "image_id query parameter is required", nil)
			return
		}

		if err := st.Images.Delete(imageID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				utils.RespondWithNotFound(c, "Image ID not found")
				return
			}
			utils.RespondWithInternalError(c, "Failed to remove image", err.Error())
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "Image deleted successfully"})
	}
}
