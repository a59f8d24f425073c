package main

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const testSecret = "test-secret-key"

func newAuthTestServer(cfg *AuthConfig) *Server {
	return &Server{
		authConfig: cfg,
		logger:     zap.NewNop().Sugar(),
		done:       make(chan struct{}),
	}
}

func makeToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return signed
}

func TestParseAuthCommand(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantType string
		wantErr  bool
	}{
		{"valid jwt", "AUTH JWT some.token.here", "JWT", false},
		{"lowercase auth", "auth jwt some.token.here", "JWT", false},
		{"missing token", "AUTH JWT", "", true},
		{"unsupported type", "AUTH BASIC user:pass", "", true},
		{"not auth", "SELECT 1", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authType, token, err := parseAuthCommand(tt.line)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error for %q", tt.line)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseAuthCommand(%q) error: %v", tt.line, err)
			}
			if authType != tt.wantType {
				t.Errorf("Expected type %q, got %q", tt.wantType, authType)
			}
			if token == "" {
				t.Error("Expected non-empty token")
			}
		})
	}
}

func TestValidateJWT(t *testing.T) {
	server := newAuthTestServer(&AuthConfig{Enabled: true, JWTSecret: testSecret})

	token := makeToken(t, testSecret, jwt.MapClaims{
		"name":  "Alice",
		"email": "alice@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	result := server.validateJWT(token)
	if result.err != nil {
		t.Fatalf("validateJWT error: %v", result.err)
	}
	if result.identity.Name != "Alice" {
		t.Errorf("Expected name Alice, got %q", result.identity.Name)
	}
	if result.identity.Email != "alice@example.com" {
		t.Errorf("Expected email alice@example.com, got %q", result.identity.Email)
	}
	if result.expiresAt.IsZero() {
		t.Error("Expected expiry to be set")
	}
}

func TestValidateJWTWrongSecret(t *testing.T) {
	server := newAuthTestServer(&AuthConfig{Enabled: true, JWTSecret: testSecret})

	token := makeToken(t, "different-secret", jwt.MapClaims{
		"name": "Mallory",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	if result := server.validateJWT(token); result.err == nil {
		t.Error("Expected error for token signed with wrong secret")
	}
}

func TestValidateJWTExpired(t *testing.T) {
	server := newAuthTestServer(&AuthConfig{Enabled: true, JWTSecret: testSecret})

	token := makeToken(t, testSecret, jwt.MapClaims{
		"name": "Alice",
		"exp":  time.Now().Add(-time.Hour).Unix(),
	})

	if result := server.validateJWT(token); result.err == nil {
		t.Error("Expected error for expired token")
	}
}

func TestValidateJWTIssuer(t *testing.T) {
	server := newAuthTestServer(&AuthConfig{
		Enabled:   true,
		JWTSecret: testSecret,
		Issuer:    "sqlrunner",
	})

	good := makeToken(t, testSecret, jwt.MapClaims{
		"name": "Alice", "iss": "sqlrunner",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	if result := server.validateJWT(good); result.err != nil {
		t.Errorf("Expected valid issuer to pass: %v", result.err)
	}

	bad := makeToken(t, testSecret, jwt.MapClaims{
		"name": "Alice", "iss": "someone-else",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	if result := server.validateJWT(bad); result.err == nil {
		t.Error("Expected error for wrong issuer")
	}
}

func TestValidateJWTMissingIdentity(t *testing.T) {
	server := newAuthTestServer(&AuthConfig{Enabled: true, JWTSecret: testSecret})

	token := makeToken(t, testSecret, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	if result := server.validateJWT(token); result.err == nil {
		t.Error("Expected error for token without identity claims")
	}
}

func TestValidateJWTCustomClaims(t *testing.T) {
	server := newAuthTestServer(&AuthConfig{
		Enabled:    true,
		JWTSecret:  testSecret,
		NameClaim:  "preferred_username",
		EmailClaim: "mail",
	})

	token := makeToken(t, testSecret, jwt.MapClaims{
		"preferred_username": "bob",
		"mail":               "bob@example.com",
		"exp":                time.Now().Add(time.Hour).Unix(),
	})

	result := server.validateJWT(token)
	if result.err != nil {
		t.Fatalf("validateJWT error: %v", result.err)
	}
	if result.identity.Name != "bob" || result.identity.Email != "bob@example.com" {
		t.Errorf("Unexpected identity: %+v", result.identity)
	}
}

func TestHandleAuth(t *testing.T) {
	server := newAuthTestServer(&AuthConfig{Enabled: true, JWTSecret: testSecret})
	state := &ConnectionState{}

	token := makeToken(t, testSecret, jwt.MapClaims{
		"name":  "Alice",
		"email": "alice@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	resp := server.handleAuth("AUTH JWT "+token, state)
	if !resp.Success {
		t.Fatalf("Expected successful auth, got error: %s", resp.Error)
	}
	if !state.IsAuthenticated() {
		t.Error("Expected connection state to be authenticated")
	}

	var ar AuthResponse
	if err := json.Unmarshal(resp.Result, &ar); err != nil {
		t.Fatalf("Failed to decode auth response: %v", err)
	}
	if !ar.Authenticated {
		t.Error("Expected authenticated response")
	}
	if !strings.Contains(ar.Identity, "Alice") {
		t.Errorf("Expected identity to contain Alice, got %q", ar.Identity)
	}
	if ar.ExpiresIn <= 0 {
		t.Errorf("Expected positive expiry, got %d", ar.ExpiresIn)
	}
}

func TestHandleAuthInvalidToken(t *testing.T) {
	server := newAuthTestServer(&AuthConfig{Enabled: true, JWTSecret: testSecret})
	state := &ConnectionState{}

	resp := server.handleAuth("AUTH JWT not.a.token", state)
	if resp.Success {
		t.Error("Expected failed auth for garbage token")
	}
	if state.IsAuthenticated() {
		t.Error("Expected connection to stay unauthenticated")
	}
}

func TestConnectionStateExpiry(t *testing.T) {
	state := &ConnectionState{
		authenticated: true,
		tokenExpiry:   time.Now().Add(-time.Minute),
	}
	if state.IsAuthenticated() {
		t.Error("Expected expired state to report unauthenticated")
	}

	state.tokenExpiry = time.Now().Add(time.Minute)
	if !state.IsAuthenticated() {
		t.Error("Expected unexpired state to report authenticated")
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	resp := Response{Success: true, Type: "query", Result: json.RawMessage(`{"columns":["id"]}`)}

	data, err := EncodeResponse(resp)
	if err != nil {
		t.Fatalf("EncodeResponse error: %v", err)
	}
	if data[len(data)-1] != '\n' {
		t.Error("Expected newline-terminated response")
	}

	req, err := DecodeRequest([]byte(`{"query": "SELECT 1"}`))
	if err != nil {
		t.Fatalf("DecodeRequest error: %v", err)
	}
	if req.Query != "SELECT 1" {
		t.Errorf("Unexpected query: %q", req.Query)
	}
}
