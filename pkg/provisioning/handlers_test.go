// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package provisioning

import (
	"bytes"
	"context"
	"errors"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/mock/gomock"

	httptypes "github.com/canonical/gym-membership-service/internal/http/types"
	"github.com/canonical/gym-membership-service/internal/identity"
	"github.com/canonical/gym-membership-service/internal/logging"
	"github.com/canonical/gym-membership-service/internal/monitoring"
	"github.com/canonical/gym-membership-service/internal/storage"
	"github.com/canonical/gym-membership-service/internal/tracing"
	"github.com/canonical/gym-membership-service/internal/types"
)

// passGuard admits every request as the given identity.
type passGuard struct {
	as *types.Identity
}

func (g passGuard) RequireSection(...types.Section) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(identity.WithIdentity(r.Context(), g.as)))
		})
	}
}

func newTestRouter(s ServiceInterface, as *types.Identity) *chi.Mux {
	mux := chi.NewMux()
	NewAPI(
		s,
		passGuard{as: as},
		tracing.NewNoopTracer(),
		monitoring.NewNoopMonitor("gym-membership-service"),
		logging.NewNoopLogger(),
	).RegisterEndpoints(mux)
	return mux
}

func TestAPI_ProvisionAdmin(t *testing.T) {
	body := `{"email":"a@gym.com","first_name":"Jo","last_name":"Doe","tenant":{"name":"Gritty Gym"}}`

	testCases := []struct {
		name           string
		body           string
		setupMocks     func(*MockServiceInterface)
		expectedStatus int
		expectedReason string
	}{
		{
			name: "created",
			body: body,
			setupMocks: func(s *MockServiceInterface) {
				s.EXPECT().ProvisionAdmin(gomock.Any(), superuser, gomock.Any()).DoAndReturn(
					func(_ context.Context, _ *types.Identity, req *AdminRequest) (*Provisioned, error) {
						if req.Tenant.Name != "Gritty Gym" {
							t.Errorf("unexpected request %+v", req)
						}
						return &Provisioned{Identity: person("a1", types.RoleAdmin, "gym-1", true), Tenant: &types.Tenant{ID: "gym-1"}}, nil
					},
				)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "already exists",
			body: body,
			setupMocks: func(s *MockServiceInterface) {
				s.EXPECT().ProvisionAdmin(gomock.Any(), superuser, gomock.Any()).Return(nil, &types.AlreadyExistsError{Email: "a@gym.com", Role: types.RoleUser})
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "not allowed",
			body: body,
			setupMocks: func(s *MockServiceInterface) {
				s.EXPECT().ProvisionAdmin(gomock.Any(), superuser, gomock.Any()).Return(nil, &types.UnauthorizedError{Reason: types.ReasonInsufficientPermissions})
			},
			expectedStatus: http.StatusForbidden,
			expectedReason: string(types.ReasonInsufficientPermissions),
		},
		{
			name: "store failure",
			body: body,
			setupMocks: func(s *MockServiceInterface) {
				s.EXPECT().ProvisionAdmin(gomock.Any(), superuser, gomock.Any()).Return(nil, types.NewStoreError("create tenant", errors.New("db error")))
			},
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "malformed body",
			body:           `{"email":`,
			setupMocks:     func(*MockServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := NewMockServiceInterface(ctrl)
			tc.setupMocks(mockService)

			req := httptest.NewRequest(http.MethodPost, "/api/v0/admins", bytes.NewBufferString(tc.body))
			w := httptest.NewRecorder()
			newTestRouter(mockService, superuser).ServeHTTP(w, req)

			if w.Code != tc.expectedStatus {
				t.Fatalf("expected status %d, got %d", tc.expectedStatus, w.Code)
			}

			if tc.expectedReason != "" {
				var resp httptypes.ErrorResponse
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					t.Fatalf("failed to decode response: %v", err)
				}
				if resp.Reason != tc.expectedReason {
					t.Errorf("expected reason %q, got %q", tc.expectedReason, resp.Reason)
				}
			}
		})
	}
}

func TestAPI_ListIdentities(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	admin := person("a1", types.RoleAdmin, "gym-1", true)
	pending := person("u1", types.RoleUser, "gym-1", true)
	claimed := person("u2", types.RoleUser, "gym-1", true)
	claimed.Binding, _ = types.BoundBinding("kratos-u2")

	mockService := NewMockServiceInterface(ctrl)
	mockService.EXPECT().ListIdentities(gomock.Any(), admin, "", int64(2), int64(10)).Return([]*types.Identity{pending, claimed}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v0/members?page=2&size=10", nil)
	w := httptest.NewRecorder()
	newTestRouter(mockService, admin).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp struct {
		Data []struct {
			ID               string                 `json:"id"`
			InvitationStatus types.InvitationStatus `json:"invitation_status"`
		} `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(resp.Data) != 2 {
		t.Fatalf("expected 2 members, got %d", len(resp.Data))
	}
	if resp.Data[0].InvitationStatus != types.InvitationPending || resp.Data[1].InvitationStatus != types.InvitationClaimed {
		t.Errorf("unexpected invitation statuses %+v", resp.Data)
	}
}

func TestAPI_SetActive(t *testing.T) {
	admin := person("a1", types.RoleAdmin, "gym-1", true)

	testCases := []struct {
		name           string
		body           string
		setupMocks     func(*MockServiceInterface)
		expectedStatus int
	}{
		{
			name: "deactivate",
			body: `{"active":false}`,
			setupMocks: func(s *MockServiceInterface) {
				s.EXPECT().SetActive(gomock.Any(), admin, "u1", false).Return(person("u1", types.RoleUser, "gym-1", false), nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing flag",
			body:           `{}`,
			setupMocks:     func(*MockServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "unknown member",
			body: `{"active":true}`,
			setupMocks: func(s *MockServiceInterface) {
				s.EXPECT().SetActive(gomock.Any(), admin, "u1", true).Return(nil, storage.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := NewMockServiceInterface(ctrl)
			tc.setupMocks(mockService)

			req := httptest.NewRequest(http.MethodPut, "/api/v0/members/u1/active", bytes.NewBufferString(tc.body))
			w := httptest.NewRecorder()
			newTestRouter(mockService, admin).ServeHTTP(w, req)

			if w.Code != tc.expectedStatus {
				t.Errorf("expected status %d, got %d", tc.expectedStatus, w.Code)
			}
		})
	}
}

func TestAPI_TrainerAssignment(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	admin := person("a1", types.RoleAdmin, "gym-1", true)

	mockService := NewMockServiceInterface(ctrl)
	mockService.EXPECT().AssignTrainer(gomock.Any(), admin, "t1", "u1").Return(nil)
	mockService.EXPECT().UnassignTrainer(gomock.Any(), admin, "t1", "u1").Return(&types.ValidationError{Field: "member_id"})

	router := newTestRouter(mockService, admin)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/v0/trainers/t1/members/u1", nil))
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200 on assign, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v0/trainers/t1/members/u1", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 on unassign, got %d", w.Code)
	}
}

func TestAPI_ListAssignedMembers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	trainer := person("t1", types.RoleTrainer, "gym-1", true)

	mockService := NewMockServiceInterface(ctrl)
	mockService.EXPECT().ListAssignedMembers(gomock.Any(), trainer).Return([]*types.Identity{person("u1", types.RoleUser, "gym-1", true)}, nil)

	w := httptest.NewRecorder()
	newTestRouter(mockService, trainer).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v0/trainer/members", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}
