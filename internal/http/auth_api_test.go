package handlers_test

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestRegisterEndpoint(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp := doJSON(t, app, "POST", "/api/users/register", "", fiber.Map{
		"name": "Dana", "email": "dana@example.com", "password": "hunter22",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: want 201, got %d", resp.StatusCode)
	}
	var body struct {
		ID    string `json:"id"`
		Role  string `json:"role"`
		Token string `json:"token"`
	}
	decode(t, resp, &body)
	if body.ID == "" || body.Role != "Client" || body.Token == "" {
		t.Fatalf("bad register body: %+v", body)
	}

	// duplicate email, different case
	resp = doJSON(t, app, "POST", "/api/users/register", "", fiber.Map{
		"name": "Dana Two", "email": "DANA@example.com", "password": "hunter22",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("duplicate email: want 400, got %d", resp.StatusCode)
	}

	// second seller (seed already has one)
	resp = doJSON(t, app, "POST", "/api/users/register", "", fiber.Map{
		"name": "Usurper", "email": "usurper@example.com", "password": "hunter22", "role": "Seller",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("second seller: want 400, got %d", resp.StatusCode)
	}

	// missing fields
	resp = doJSON(t, app, "POST", "/api/users/register", "", fiber.Map{"email": "x@example.com"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing fields: want 400, got %d", resp.StatusCode)
	}
}

func TestLoginEndpoint(t *testing.T) {
	app, _, _ := newTestApp(t)

	tok := login(t, app, "client@minimart.test", "Passw0rd!")
	if tok == "" {
		t.Fatal("no token")
	}

	resp := doJSON(t, app, "POST", "/api/users/login", "", fiber.Map{
		"email": "client@minimart.test", "password": "nope-nope",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad password: want 401, got %d", resp.StatusCode)
	}

	resp = doJSON(t, app, "POST", "/api/users/login", "", fiber.Map{"email": "client@minimart.test"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing password: want 400, got %d", resp.StatusCode)
	}
}

func TestProtectAndSellerGates(t *testing.T) {
	app, _, _ := newTestApp(t)

	// no token
	resp := doJSON(t, app, "GET", "/api/cart", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("no token: want 401, got %d", resp.StatusCode)
	}

	// garbage token
	resp = doJSON(t, app, "GET", "/api/cart", "not-a-jwt", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad token: want 401, got %d", resp.StatusCode)
	}

	// client hitting a seller-only route
	clientTok := login(t, app, "client@minimart.test", "Passw0rd!")
	resp = doJSON(t, app, "GET", "/api/orders", clientTok, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("client on seller route: want 403, got %d", resp.StatusCode)
	}

	// seller passes both gates
	sellerTok := login(t, app, "seller@minimart.test", "Passw0rd!")
	resp = doJSON(t, app, "GET", "/api/orders", sellerTok, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("seller on seller route: want 200, got %d", resp.StatusCode)
	}
}
