// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package access

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/mock/gomock"

	"github.com/canonical/gym-membership-service/internal/logging"
	"github.com/canonical/gym-membership-service/internal/monitoring"
	"github.com/canonical/gym-membership-service/internal/storage"
	"github.com/canonical/gym-membership-service/internal/tracing"
	"github.com/canonical/gym-membership-service/internal/types"
	"github.com/canonical/gym-membership-service/pkg/authentication"
)

func newTestRouter(s ServiceInterface) *chi.Mux {
	policy := NewPolicy("")
	tracer := tracing.NewNoopTracer()
	monitor := monitoring.NewNoopMonitor("gym-membership-service")
	logger := logging.NewNoopLogger()

	mux := chi.NewMux()
	NewAPI(s, policy, NewMiddleware(s, policy, tracer, monitor, logger), tracer, monitor, logger).RegisterEndpoints(mux)
	return mux
}

func TestAPI_Me(t *testing.T) {
	admin := identityWith("a1", types.RoleAdmin, "gym-1", true)

	testCases := []struct {
		name           string
		subject        Subject
		expectedStatus int
		expectedHome   string
	}{
		{name: "anonymous", subject: Subject{}, expectedStatus: http.StatusUnauthorized},
		{name: "not registered", subject: Subject{Verified: verified}, expectedStatus: http.StatusForbidden},
		{name: "admin", subject: Subject{Verified: verified, Identity: admin}, expectedStatus: http.StatusOK, expectedHome: "/admin"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := NewMockServiceInterface(ctrl)
			mockService.EXPECT().Subject(gomock.Any(), gomock.Any()).Return(tc.subject, nil)

			req := httptest.NewRequest(http.MethodGet, "/api/v0/me", nil)
			w := httptest.NewRecorder()
			newTestRouter(mockService).ServeHTTP(w, req)

			if w.Code != tc.expectedStatus {
				t.Fatalf("expected status %d, got %d", tc.expectedStatus, w.Code)
			}
			if tc.expectedStatus != http.StatusOK {
				return
			}

			var resp struct {
				Data Me `json:"data"`
			}
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Data.Home != tc.expectedHome {
				t.Errorf("expected home %q, got %q", tc.expectedHome, resp.Data.Home)
			}
			if resp.Data.Identity == nil || resp.Data.Identity.ID != "a1" {
				t.Errorf("unexpected identity %+v", resp.Data.Identity)
			}
		})
	}
}

func TestAPI_Authorize(t *testing.T) {
	trainer := identityWith("t1", types.RoleTrainer, "gym-1", true)

	testCases := []struct {
		name            string
		section         string
		expectCall      bool
		expectedStatus  int
		expectedAllowed bool
		expectedReason  types.DenialReason
	}{
		{name: "trainer section", section: "trainer", expectCall: true, expectedStatus: http.StatusOK, expectedAllowed: true},
		{name: "admin section", section: "admin", expectCall: true, expectedStatus: http.StatusOK, expectedReason: types.ReasonInsufficientPermissions},
		{name: "unknown section", section: "kitchen", expectedStatus: http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := NewMockServiceInterface(ctrl)
			if tc.expectCall {
				mockService.EXPECT().Subject(gomock.Any(), verified).Return(Subject{Verified: verified, Identity: trainer}, nil)
			}

			req := httptest.NewRequest(http.MethodGet, "/api/v0/authorize/"+tc.section, nil)
			req = req.WithContext(authentication.WithVerifiedIdentity(req.Context(), verified))
			w := httptest.NewRecorder()
			newTestRouter(mockService).ServeHTTP(w, req)

			if w.Code != tc.expectedStatus {
				t.Fatalf("expected status %d, got %d", tc.expectedStatus, w.Code)
			}
			if tc.expectedStatus != http.StatusOK {
				return
			}

			var resp struct {
				Data Decision `json:"data"`
			}
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Data.Allowed != tc.expectedAllowed || resp.Data.Reason != tc.expectedReason {
				t.Errorf("unexpected decision %+v", resp.Data)
			}
		})
	}
}

func TestAPI_GetMember(t *testing.T) {
	trainer := identityWith("t1", types.RoleTrainer, "gym-1", true)
	member := identityWith("u2", types.RoleUser, "gym-1", true)

	testCases := []struct {
		name           string
		setupMocks     func(*MockServiceInterface)
		expectedStatus int
	}{
		{
			name: "visible member",
			setupMocks: func(s *MockServiceInterface) {
				s.EXPECT().GetMember(gomock.Any(), trainer, "u2").Return(member, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "hidden member",
			setupMocks: func(s *MockServiceInterface) {
				s.EXPECT().GetMember(gomock.Any(), trainer, "u2").Return(nil, &types.UnauthorizedError{Reason: types.ReasonInsufficientPermissions})
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name: "missing member",
			setupMocks: func(s *MockServiceInterface) {
				s.EXPECT().GetMember(gomock.Any(), trainer, "u2").Return(nil, storage.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := NewMockServiceInterface(ctrl)
			mockService.EXPECT().Subject(gomock.Any(), verified).Return(Subject{Verified: verified, Identity: trainer}, nil)
			tc.setupMocks(mockService)

			req := httptest.NewRequest(http.MethodGet, "/api/v0/members/u2", nil)
			req = req.WithContext(authentication.WithVerifiedIdentity(req.Context(), verified))
			w := httptest.NewRecorder()
			newTestRouter(mockService).ServeHTTP(w, req)

			if w.Code != tc.expectedStatus {
				t.Errorf("expected status %d, got %d", tc.expectedStatus, w.Code)
			}
		})
	}
}
