package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"social-studio-backend/internal/config"
	"social-studio-backend/utils"
)

type setEnvKeysRequest struct {
	OpenAIAPIKey string `json:"openai_api_key" binding:"required"`
	ImgBBAPIKey  string `json:"imgbb_api_key" binding:"required"`
	MailAPIKey   string `json:"mail_api_key" binding:"required"`
}

// SetupEnvRoutes registers the managed API key endpoints. Keys are persisted
// to the env file and never returned unmasked.
func SetupEnvRoutes(router *gin.Engine, cfg *config.Config) {
	env := router.Group("/env")

	env.POST("/set", handleSetEnvKeys(cfg))
	env.GET("/get", handleGetEnvKeys(cfg))
}

func handleSetEnvKeys(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req setEnvKeysRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request body", err.Error())
			return
		}

		err := cfg.SetManagedKeys(map[string]string{
			config.KeyOpenAI: req.OpenAIAPIKey,
			config.KeyImgBB:  req.ImgBBAPIKey,
			config.KeyMail:   req.MailAPIKey,
		})
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to save API keys", err.Error())
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "success",
			"message": "API keys saved",
		})
	}
}

func handleGetEnvKeys(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		keys := cfg.ManagedKeys()
		c.JSON(http.StatusOK, gin.H{
			"openai_api_key": utils.MaskSecret(keys[config.KeyOpenAI]),
			"imgbb_api_key":  utils.MaskSecret(keys[config.KeyImgBB]),
			"mail_api_key":   utils.MaskSecret(keys[config.KeyMail]),
		})
	}
}
