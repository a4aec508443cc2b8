// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("failed to parse form: %v", err)
			return
		}
		if r.PostForm.Get("grant_type") != "client_credentials" {
			t.Errorf("unexpected grant type %q", r.PostForm.Get("grant_type"))
		}
		if r.PostForm.Get("audience") != "gym-membership-service" {
			t.Errorf("expected the audience to be forwarded, got %q", r.PostForm.Get("audience"))
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "t0ken",
			"token_type":   "bearer",
			"expires_in":   3600,
		})
	}))
	defer srv.Close()

	token, err := fetchToken(context.Background(), &tokenOptions{
		clientID:     "cli",
		clientSecret: "secret",
		tokenURL:     srv.URL,
		audience:     "gym-membership-service",
		scopes:       []string{"openid"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token.AccessToken != "t0ken" {
		t.Errorf("expected t0ken, got %q", token.AccessToken)
	}
}

func TestFetchTokenNeedsAnEndpoint(t *testing.T) {
	if _, err := fetchToken(context.Background(), &tokenOptions{clientID: "cli", clientSecret: "secret"}); err == nil {
		t.Error("expected error when neither token url nor issuer url is set")
	}
}
