// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package notifications

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/canonical/gym-membership-service/internal/logging"
	"github.com/canonical/gym-membership-service/internal/monitoring"
	"github.com/canonical/gym-membership-service/internal/storage"
	"github.com/canonical/gym-membership-service/internal/tracing"
	"github.com/canonical/gym-membership-service/internal/types"
)

//go:generate mockgen -build_flags=--mod=mod -package notifications -destination ./mock_interfaces.go -source=./interfaces.go

var member = &types.Identity{ID: "u1", Role: types.RoleUser, IsActive: true}

func newTestService(s StorageInterface) *Service {
	return NewService(s, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("gym-membership-service"), logging.NewNoopLogger())
}

func TestService_List(t *testing.T) {
	testCases := []struct {
		name       string
		requester  *types.Identity
		unreadOnly bool
		setupMocks func(*MockStorageInterface)
		expected   int
		expectErr  bool
	}{
		{
			name:       "unread only",
			requester:  member,
			unreadOnly: true,
			setupMocks: func(s *MockStorageInterface) {
				s.EXPECT().ListNotifications(gomock.Any(), "u1", true).Return([]*types.Notification{{ID: "n1"}}, nil)
			},
			expected: 1,
		},
		{
			name:      "empty inbox is an empty list",
			requester: member,
			setupMocks: func(s *MockStorageInterface) {
				s.EXPECT().ListNotifications(gomock.Any(), "u1", false).Return(nil, nil)
			},
		},
		{
			name:      "deactivated member reads the deactivation notice",
			requester: &types.Identity{ID: "u2", Role: types.RoleUser, IsActive: false},
			setupMocks: func(s *MockStorageInterface) {
				s.EXPECT().ListNotifications(gomock.Any(), "u2", false).Return([]*types.Notification{{ID: "n2", Message: "Account deactivated"}}, nil)
			},
			expected: 1,
		},
		{
			name:       "anonymous",
			setupMocks: func(*MockStorageInterface) {},
			expectErr:  true,
		},
		{
			name:      "store failure",
			requester: member,
			setupMocks: func(s *MockStorageInterface) {
				s.EXPECT().ListNotifications(gomock.Any(), "u1", false).Return(nil, errors.New("db error"))
			},
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockStorage := NewMockStorageInterface(ctrl)
			tc.setupMocks(mockStorage)

			notifications, err := newTestService(mockStorage).List(context.Background(), tc.requester, tc.unreadOnly)
			if tc.expectErr {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if notifications == nil || len(notifications) != tc.expected {
				t.Errorf("expected %d notifications, got %v", tc.expected, notifications)
			}
		})
	}
}

func TestService_SetRead(t *testing.T) {
	testCases := []struct {
		name       string
		setupMocks func(*MockStorageInterface)
		check      func(*testing.T, error)
	}{
		{
			name: "own notification",
			setupMocks: func(s *MockStorageInterface) {
				s.EXPECT().SetNotificationRead(gomock.Any(), "u1", "n1", false).Return(nil)
			},
			check: func(t *testing.T, err error) {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			},
		},
		{
			name: "someone else's notification",
			setupMocks: func(s *MockStorageInterface) {
				s.EXPECT().SetNotificationRead(gomock.Any(), "u1", "n1", false).Return(storage.ErrNotFound)
			},
			check: func(t *testing.T, err error) {
				if !errors.Is(err, storage.ErrNotFound) {
					t.Errorf("expected not found, got %v", err)
				}
			},
		},
		{
			name: "store failure",
			setupMocks: func(s *MockStorageInterface) {
				s.EXPECT().SetNotificationRead(gomock.Any(), "u1", "n1", false).Return(errors.New("db error"))
			},
			check: func(t *testing.T, err error) {
				var sErr *types.StoreError
				if !errors.As(err, &sErr) {
					t.Errorf("expected a StoreError, got %v", err)
				}
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockStorage := NewMockStorageInterface(ctrl)
			tc.setupMocks(mockStorage)

			tc.check(t, newTestService(mockStorage).SetRead(context.Background(), member, "n1", false))
		})
	}
}

func TestService_MarkAllRead(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStorage := NewMockStorageInterface(ctrl)
	mockStorage.EXPECT().MarkAllNotificationsRead(gomock.Any(), "u1").Return(int64(3), nil)

	n, err := newTestService(mockStorage).MarkAllRead(context.Background(), member)
	if err != nil || n != 3 {
		t.Errorf("expected 3 updated, got %d, %v", n, err)
	}

	if _, err := newTestService(mockStorage).MarkAllRead(context.Background(), nil); err == nil {
		t.Error("expected anonymous callers to be rejected")
	}
}
