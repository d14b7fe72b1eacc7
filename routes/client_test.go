package routes

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestClientLifecycle(t *testing.T) {
	router, st := newTestRouter(t)
	SetupClientRoutes(router, st)

	w := doJSON(t, router, "POST", "/clients/create", gin.H{
		"client_name": "Corner Roasters",
		"focus":       "Coffee",
		"tagline":     "Slow mornings",
		"mail":        "owner@example.com",
		"design_guide": gin.H{
			"brand_colors": []string{"#3B2F2F"},
			"image_mood":   "Cozy",
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("create client: %d %s", w.Code, w.Body.String())
	}
	clientID, _ := decodeBody(t, w)["client_id"].(string)
	if clientID == "" {
		t.Fatal("no client_id in response")
	}

	w = doJSON(t, router, "POST", "/clients/create", gin.H{"client_name": "corner roasters"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate client: expected 400, got %d", w.Code)
	}

	w = doJSON(t, router, "GET", "/clients/get-profile?client_id="+clientID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get profile: %d %s", w.Code, w.Body.String())
	}
	profile := decodeBody(t, w)
	if profile["client_name"] != "Corner Roasters" {
		t.Fatalf("unexpected profile: %v", profile)
	}

	w = doJSON(t, router, "POST", "/clients/add-client-data", gin.H{
		"client_id": clientID,
		"data":      gin.H{"instagram": "@cornerroasters"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("add client data: %d %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, "DELETE", "/clients/remove-client-data", gin.H{
		"client_id":  clientID,
		"field_name": "instagram",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("remove client data: %d %s", w.Code, w.Body.String())
	}
	// removing again: field is gone
	w = doJSON(t, router, "DELETE", "/clients/remove-client-data", gin.H{
		"client_id":  clientID,
		"field_name": "instagram",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("remove missing field: expected 400, got %d", w.Code)
	}

	w = doJSON(t, router, "GET", "/clients/get-all-clients", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get all clients: %d", w.Code)
	}
	clients, _ := decodeBody(t, w)["clients"].([]any)
	if len(clients) != 1 {
		t.Fatalf("expected 1 client, got %d", len(clients))
	}

	w = doJSON(t, router, "DELETE", "/clients/remove?client_id="+clientID+"&delete_all_data=true", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("remove client: %d %s", w.Code, w.Body.String())
	}
	w = doJSON(t, router, "GET", "/clients/get-profile?client_id="+clientID, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("profile after delete: expected 404, got %d", w.Code)
	}
}

func TestClientValidation(t *testing.T) {
	router, st := newTestRouter(t)
	SetupClientRoutes(router, st)

	// name below the minimum length
	w := doJSON(t, router, "POST", "/clients/create", gin.H{"client_name": "x"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("short name: expected 400, got %d", w.Code)
	}

	w = doJSON(t, router, "DELETE", "/clients/remove", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("remove without id: expected 400, got %d", w.Code)
	}

	w = doJSON(t, router, "POST", "/clients/add-client-data", gin.H{
		"client_id": "CLT-nope",
		"data":      gin.H{"x": 1},
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("add data to missing client: expected 404, got %d", w.Code)
	}
}
