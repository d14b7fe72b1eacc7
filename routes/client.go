package routes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"social-studio-backend/internal/store"
	"social-studio-backend/models"
	"social-studio-backend/utils"
)

// SetupClientRoutes registers the client profile surface.
func SetupClientRoutes(router *gin.Engine, st *store.Store) {
	clients := router.Group("/clients")

	clients.POST("/create", handleCreateClient(st))
	clients.DELETE("/remove", handleRemoveClient(st))
	clients.POST("/add-client-data", handleAddClientData(st))
	clients.DELETE("/remove-client-data", handleRemoveClientData(st))
	clients.GET("/get-profile", handleGetClientProfile(st))
	clients.GET("/get-all-clients", handleGetAllClients(st))
}

func handleCreateClient(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var profile models.ClientProfile
		if err := c.ShouldBindJSON(&profile); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request body", err.Error())
			return
		}

		created, err := st.Clients.Create(profile)
		if err != nil {
			if errors.Is(err, store.ErrDuplicateName) {
				utils.RespondWithConflict(c, "Client '"+profile.ClientName+"' already exists")
				return
			}
			utils.RespondWithInternalError(c, "Failed to create client", err.Error())
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"client_id": created.ClientID,
			"status":    "Client created successfully",
		})
	}
}

func handleRemoveClient(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID := c.Query("client_id")
		if clientID == "" {
			utils.RespondWithBadRequest(c, "client_id query parameter is required", nil)
			return
		}
		wipe := c.Query("delete_all_data") == "true"

		if err := st.Clients.Delete(clientID, wipe); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				utils.RespondWithNotFound(c, "Client ID not found")
				return
			}
			utils.RespondWithInternalError(c, "Failed to remove client", err.Error())
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "Client and all data removed successfully"})
	}
}

func handleAddClientData(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.UpdateClientDataRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request body", err.Error())
			return
		}

		if err := st.Clients.MergeFields(req.ClientID, req.Data); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				utils.RespondWithNotFound(c, "Client not found")
				return
			}
			utils.RespondWithInternalError(c, "Failed to update client data", err.Error())
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "Data added successfully"})
	}
}

func handleRemoveClientData(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.RemoveClientFieldRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request body", err.Error())
			return
		}

		if err := st.Clients.RemoveField(req.ClientID, req.FieldName); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				utils.RespondWithNotFound(c, "Client not found")
				return
			}
			if errors.Is(err, store.ErrFieldMissing) {
				utils.RespondWithBadRequest(c, "Field does not exist", nil)
				return
			}
			utils.RespondWithInternalError(c, "Failed to remove client field", err.Error())
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "Field removed successfully"})
	}
}

func handleGetClientProfile(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID := c.Query("client_id")
		if clientID == "" {
			utils.RespondWithBadRequest(c, "client_id query parameter is required", nil)
			return
		}

		profile, err := st.Clients.Profile(clientID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				utils.RespondWithNotFound(c, "Client not found")
				return
			}
			utils.RespondWithInternalError(c, "Failed to load client profile", err.Error())
			return
		}
		c.JSON(http.StatusOK, profile)
	}
}

func handleGetAllClients(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		records, err := st.Clients.Records()
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to list clients", err.Error())
			return
		}
		c.JSON(http.StatusOK, gin.H{"clients": records})
	}
}
