// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MaplrCanada/ss-petitions/auth"
	"github.com/MaplrCanada/ss-petitions/cliparse"
	"github.com/MaplrCanada/ss-petitions/db"
	"github.com/MaplrCanada/ss-petitions/middleware"
	"github.com/MaplrCanada/ss-petitions/models"
	"github.com/MaplrCanada/ss-petitions/petition"
)

// Citizens used across handler and router tests
const (
	AuthorID = "AUTHOR01"
	SignerID = "SIGNER01"
	AdminID  = "ADMIN001"
)

// SetupTestDB creates a fresh SQLite database in a temp dir with the full
// schema. It is closed when the test ends.
func SetupTestDB(t *testing.T) *db.Store {
	t.Helper()

	store, err := db.Open(db.DialectSQLite, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  ":memory:",
		DatabaseType: cliparse.DatabaseSQLite,
		AdminKeySalt: "test-admin-salt",
	}
}

// GetTestRules returns the default rules with a low signature threshold
func GetTestRules() petition.Rules {
	rules := petition.DefaultRules()
	rules.RequiredSignatures = 3
	return rules
}

// CreateTestPetition inserts a petition by authorID with the given status
func CreateTestPetition(t *testing.T, store *db.Store, authorID string, status petition.Status) petition.Petition {
	t.Helper()

	now := time.Now().UTC()
	p := petition.Petition{
		ID:         auth.NewPetitionID(),
		Title:      "Fix the potholes on Route 68",
		Content:    "The road is falling apart and cars keep breaking down.",
		Category:   "Infrastructure",
		AuthorID:   authorID,
		AuthorName: "Author " + authorID,
		Status:     status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := store.InsertPetition(context.Background(), p); err != nil {
		t.Fatalf("Failed to create test petition: %v", err)
	}

	return p
}

// AddTestSignature signs a petition on behalf of signerID
func AddTestSignature(t *testing.T, store *db.Store, petitionID, signerID string) {
	t.Helper()

	sig := petition.Signature{SignerID: signerID, SignerName: "Signer " + signerID, SignedAt: time.Now().UTC()}
	if err := store.AddSignature(context.Background(), petitionID, sig); err != nil {
		t.Fatalf("Failed to create test signature: %v", err)
	}
}

// CitizenHeaders returns identity headers for a regular citizen
func CitizenHeaders(citizenID string) map[string]string {
	return map[string]string{
		middleware.HeaderCitizenID:   citizenID,
		middleware.HeaderCitizenName: "Citizen " + citizenID,
	}
}

// AdminHeaders returns identity headers carrying a valid admin key
func AdminHeaders(cfg cliparse.Config, citizenID string) map[string]string {
	h := CitizenHeaders(citizenID)
	h[middleware.HeaderAdminKey] = auth.GenerateAdminKey(citizenID, cfg.AdminKeySalt)
	return h
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// WithURLParam sets a chi route parameter so handlers can be called directly
func WithURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(req.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// AsViewer attaches a viewer the way middleware.Identify would
func AsViewer(req *http.Request, viewer petition.Viewer) *http.Request {
	return req.WithContext(middleware.WithViewer(req.Context(), viewer))
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

// AssertErrorCode checks status and wire code of an error response
func AssertErrorCode(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	AssertStatus(t, w, status)
	var resp models.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if resp.Code != code {
		t.Errorf("Expected error code %q, got %q (%s)", code, resp.Code, resp.Message)
	}
}
