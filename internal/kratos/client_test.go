// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package kratos

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	ory "github.com/ory/client-go"

	"github.com/canonical/gym-membership-service/internal/logging"
	"github.com/canonical/gym-membership-service/internal/monitoring"
	"github.com/canonical/gym-membership-service/internal/tracing"
	"github.com/canonical/gym-membership-service/internal/types"
)

type fakeIdentity struct {
	ID            string         `json:"id"`
	SchemaID      string         `json:"schema_id"`
	SchemaURL     string         `json:"schema_url"`
	Traits        map[string]any `json:"traits"`
	MetadataAdmin map[string]any `json:"metadata_admin,omitempty"`
	Addresses     []fakeAddress  `json:"verifiable_addresses,omitempty"`
}

type fakeAddress struct {
	ID       string `json:"id"`
	Value    string `json:"value"`
	Verified bool   `json:"verified"`
	Via      string `json:"via"`
	Status   string `json:"status"`
}

type fakeKratos struct {
	mu         sync.Mutex
	identities map[string]*fakeIdentity
	nextID     int
	session    *fakeIdentity
	failCreate int
	patched    []map[string]any
}

func newFakeKratos() *fakeKratos {
	return &fakeKratos{identities: make(map[string]*fakeIdentity)}
}

func (f *fakeKratos) add(i *fakeIdentity) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i.SchemaID = "default"
	i.SchemaURL = "http://kratos/schemas/default"
	f.identities[i.ID] = i
}

func (f *fakeKratos) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (f *fakeKratos) router() http.Handler {
	r := chi.NewRouter()

	r.Get("/admin/identities", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		email := r.URL.Query().Get("credentials_identifier")
		out := []*fakeIdentity{}
		for _, i := range f.identities {
			if i.Traits["email"] == email {
				out = append(out, i)
			}
		}
		f.writeJSON(w, http.StatusOK, out)
	})

	r.Post("/admin/identities", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		if f.failCreate != 0 {
			f.writeJSON(w, f.failCreate, map[string]any{"error": map[string]any{"code": f.failCreate, "message": "failed"}})
			return
		}

		var body struct {
			SchemaID      string         `json:"schema_id"`
			Traits        map[string]any `json:"traits"`
			MetadataAdmin map[string]any `json:"metadata_admin"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)

		f.nextID++
		i := &fakeIdentity{
			ID:            "00000000-0000-4000-8000-00000000000" + string(rune('0'+f.nextID)),
			SchemaID:      body.SchemaID,
			SchemaURL:     "http://kratos/schemas/default",
			Traits:        body.Traits,
			MetadataAdmin: body.MetadataAdmin,
		}
		f.identities[i.ID] = i
		f.writeJSON(w, http.StatusCreated, i)
	})

	r.Post("/admin/recovery/code", func(w http.ResponseWriter, r *http.Request) {
		f.writeJSON(w, http.StatusCreated, map[string]any{
			"recovery_link": "http://kratos/self-service/recovery?flow=1",
			"recovery_code": "123456",
			"expires_at":    "2030-01-01T00:00:00Z",
		})
	})

	r.Get("/admin/identities/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		i, ok := f.identities[chi.URLParam(r, "id")]
		if !ok {
			f.writeJSON(w, http.StatusNotFound, map[string]any{"error": map[string]any{"code": 404, "message": "not found"}})
			return
		}
		f.writeJSON(w, http.StatusOK, i)
	})

	r.Delete("/admin/identities/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		id := chi.URLParam(r, "id")
		if _, ok := f.identities[id]; !ok {
			f.writeJSON(w, http.StatusNotFound, map[string]any{"error": map[string]any{"code": 404, "message": "not found"}})
			return
		}
		delete(f.identities, id)
		w.WriteHeader(http.StatusNoContent)
	})

	r.Patch("/admin/identities/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		var patches []map[string]any
		_ = json.NewDecoder(r.Body).Decode(&patches)
		f.patched = append(f.patched, patches...)

		i := f.identities[chi.URLParam(r, "id")]
		if inv, ok := i.MetadataAdmin["invitation"].(map[string]any); ok {
			inv["status"] = "accepted"
		}
		f.writeJSON(w, http.StatusOK, i)
	})

	r.Get("/sessions/whoami", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		if f.session == nil || (r.Header.Get("X-Session-Token") == "" && r.Header.Get("Cookie") == "") {
			f.writeJSON(w, http.StatusUnauthorized, map[string]any{"error": map[string]any{"code": 401, "message": "no session"}})
			return
		}
		f.writeJSON(w, http.StatusOK, map[string]any{
			"id":       "session-1",
			"active":   true,
			"identity": f.session,
		})
	})

	return r
}

func newTestClient(t *testing.T, f *fakeKratos, requireVerified bool) *Client {
	t.Helper()

	srv := httptest.NewServer(f.router())
	t.Cleanup(srv.Close)

	cfg := Config{
		AdminURL:             srv.URL,
		PublicURL:            srv.URL,
		InvitationLifetime:   "24h",
		RequireVerifiedEmail: requireVerified,
	}
	return NewClient(cfg, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test"), logging.NewNoopLogger())
}

func pendingIdentity(id, email string) *fakeIdentity {
	return &fakeIdentity{
		ID:     id,
		Traits: map[string]any{"email": email},
		MetadataAdmin: map[string]any{
			"invitation": map[string]any{"status": "pending"},
		},
	}
}

func TestClient_CreateInvitation(t *testing.T) {
	testCases := []struct {
		name         string
		existing     *fakeIdentity
		failCreate   int
		expectedKind types.ProviderErrorKind
	}{
		{name: "new invitee"},
		{name: "pending invitation exists", existing: pendingIdentity("inv-1", "ann@example.com"), expectedKind: types.ProviderDuplicateInvite},
		{
			name:         "person already has a login",
			existing:     &fakeIdentity{ID: "login-1", Traits: map[string]any{"email": "ann@example.com"}},
			expectedKind: types.ProviderAlreadyHasLogin,
		},
		{name: "conflict on create", failCreate: http.StatusConflict, expectedKind: types.ProviderDuplicateInvite},
		{name: "provider failure", failCreate: http.StatusInternalServerError, expectedKind: types.ProviderFailure},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFakeKratos()
			f.failCreate = tc.failCreate
			if tc.existing != nil {
				f.add(tc.existing)
			}
			c := newTestClient(t, f, true)

			inv, err := c.CreateInvitation(context.Background(), " Ann@Example.com ", types.InvitationMetadata{
				Role:      types.RoleAdmin,
				TenantID:  "gym-1",
				FirstName: "Ann",
				LastName:  "Lee",
			})

			if tc.expectedKind != "" {
				if !types.IsProviderError(err, tc.expectedKind) {
					t.Fatalf("expected provider error %s, got %v", tc.expectedKind, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if inv.Email != "ann@example.com" || inv.Status != types.InvitationPending {
				t.Errorf("unexpected invitation %+v", inv)
			}
			if inv.Link == "" || inv.Code != "123456" || inv.ExpiresAt == nil {
				t.Errorf("expected recovery link details, got %+v", inv)
			}

			stored := f.identities[inv.ID]
			if stored == nil {
				t.Fatalf("expected identity %s in kratos", inv.ID)
			}
			if got := stored.MetadataAdmin["invitation"].(map[string]any)["role"]; got != "admin" {
				t.Errorf("expected role admin in metadata, got %v", got)
			}
		})
	}
}

func TestClient_ListPendingAndRevoke(t *testing.T) {
	f := newFakeKratos()
	f.add(pendingIdentity("inv-1", "bob@example.com"))
	f.add(&fakeIdentity{ID: "login-2", Traits: map[string]any{"email": "carl@example.com"}})
	c := newTestClient(t, f, true)

	invs, err := c.ListPendingInvitations(context.Background(), "BOB@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(invs) != 1 || invs[0].ID != "inv-1" {
		t.Fatalf("expected one pending invitation, got %+v", invs)
	}

	if err := c.RevokeInvitation(context.Background(), "inv-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := f.identities["inv-1"]; ok {
		t.Error("expected the invitation identity to be removed")
	}

	if err := c.RevokeInvitation(context.Background(), "inv-1"); !types.IsProviderError(err, types.ProviderNotFound) {
		t.Errorf("expected not found revoking twice, got %v", err)
	}
	if err := c.RevokeInvitation(context.Background(), "login-2"); !types.IsProviderError(err, types.ProviderNotFound) {
		t.Errorf("expected not found revoking a claimed login, got %v", err)
	}
	if _, ok := f.identities["login-2"]; !ok {
		t.Error("claimed login must not be deleted")
	}

	invs, err = c.ListPendingInvitations(context.Background(), "carl@example.com")
	if err != nil || len(invs) != 0 {
		t.Errorf("expected no pending invitations, got %v %v", invs, err)
	}
}

func TestClient_AcceptInvitation(t *testing.T) {
	f := newFakeKratos()
	f.add(pendingIdentity("inv-1", "dan@example.com"))
	f.add(&fakeIdentity{ID: "login-2", Traits: map[string]any{"email": "eve@example.com"}})
	c := newTestClient(t, f, true)

	if err := c.AcceptInvitation(context.Background(), "inv-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.patched) != 1 || f.patched[0]["path"] != invitationStatus || f.patched[0]["value"] != statusAccepted {
		t.Errorf("unexpected patch %v", f.patched)
	}

	if err := c.AcceptInvitation(context.Background(), "login-2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.patched) != 1 {
		t.Error("identities without an invitation must not be patched")
	}

	if err := c.AcceptInvitation(context.Background(), "missing"); !types.IsProviderError(err, types.ProviderNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestClient_CurrentVerifiedIdentity(t *testing.T) {
	testCases := []struct {
		name            string
		session         *fakeIdentity
		token           string
		requireVerified bool
		expectedHandle  string
		expectedErr     bool
	}{
		{
			name: "verified session",
			session: &fakeIdentity{
				ID:        "8f1b2c3d-0000-4000-8000-000000000001",
				Traits:    map[string]any{"email": "Fay@Example.com"},
				Addresses: []fakeAddress{{ID: "a1", Value: "fay@example.com", Verified: true, Via: "email", Status: "completed"}},
			},
			token:           "tok",
			requireVerified: true,
			expectedHandle:  "8f1b2c3d-0000-4000-8000-000000000001",
		},
		{
			name: "unverified email rejected",
			session: &fakeIdentity{
				ID:        "h-2",
				Traits:    map[string]any{"email": "gus@example.com"},
				Addresses: []fakeAddress{{ID: "a2", Value: "gus@example.com", Verified: false, Via: "email", Status: "pending"}},
			},
			token:           "tok",
			requireVerified: true,
			expectedErr:     true,
		},
		{
			name: "unverified email accepted when not required",
			session: &fakeIdentity{
				ID:     "h-3",
				Traits: map[string]any{"email": "hal@example.com"},
			},
			token:          "tok",
			expectedHandle: "h-3",
		},
		{name: "no credentials", expectedErr: true},
		{name: "no session", token: "tok", expectedErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFakeKratos()
			if tc.session != nil {
				tc.session.SchemaID = "default"
				tc.session.SchemaURL = "http://kratos/schemas/default"
				f.session = tc.session
			}
			c := newTestClient(t, f, tc.requireVerified)

			vi, err := c.CurrentVerifiedIdentity(context.Background(), "", tc.token)
			if tc.expectedErr {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if vi.Handle != tc.expectedHandle {
				t.Errorf("expected handle %s, got %s", tc.expectedHandle, vi.Handle)
			}
			if vi.Email != types.NormalizeEmail(vi.Email) {
				t.Errorf("expected normalized email, got %s", vi.Email)
			}
		})
	}
}

func TestInvitationState(t *testing.T) {
	testCases := []struct {
		name     string
		metadata map[string]interface{}
		expected string
	}{
		{name: "no metadata", expected: ""},
		{name: "metadata without invitation", metadata: map[string]interface{}{"note": "x"}, expected: ""},
		{name: "malformed invitation", metadata: map[string]interface{}{"invitation": "pending"}, expected: ""},
		{name: "pending", metadata: map[string]interface{}{"invitation": map[string]interface{}{"status": "pending"}}, expected: "pending"},
		{name: "accepted", metadata: map[string]interface{}{"invitation": map[string]interface{}{"status": "accepted"}}, expected: "accepted"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := invitationState(&ory.Identity{Id: "id-1", MetadataAdmin: tc.metadata}); got != tc.expected {
				t.Errorf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}
