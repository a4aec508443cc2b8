// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/pressly/goose/v3"
)

func TestParseMigrateArgs(t *testing.T) {
	testCases := []struct {
		name            string
		args            []string
		expectedCommand string
		expectedVersion int64
		expectedErr     bool
	}{
		{name: "no args", args: nil, expectedCommand: "up", expectedVersion: noVersion},
		{name: "up", args: []string{"up"}, expectedCommand: "up", expectedVersion: noVersion},
		{name: "status", args: []string{"status"}, expectedCommand: "status", expectedVersion: noVersion},
		{name: "check", args: []string{"check"}, expectedCommand: "check", expectedVersion: noVersion},
		{name: "down one", args: []string{"down"}, expectedCommand: "down", expectedVersion: noVersion},
		{name: "down to version", args: []string{"down", "3"}, expectedCommand: "down", expectedVersion: 3},
		{name: "down to zero", args: []string{"down", "0"}, expectedCommand: "down", expectedVersion: 0},
		{name: "unknown command", args: []string{"sideways"}, expectedErr: true},
		{name: "up with version", args: []string{"up", "3"}, expectedErr: true},
		{name: "negative version", args: []string{"down", "-1"}, expectedErr: true},
		{name: "not a number", args: []string{"down", "three"}, expectedErr: true},
		{name: "too many args", args: []string{"down", "3", "4"}, expectedErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a, err := parseMigrateArgs(tc.args)
			if tc.expectedErr {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if a.command != tc.expectedCommand || a.version != tc.expectedVersion {
				t.Errorf("expected %s/%d, got %s/%d", tc.expectedCommand, tc.expectedVersion, a.command, a.version)
			}
		})
	}
}

type fakeProvider struct {
	pending   bool
	version   int64
	downTo    int64
	downCalls int
	err       error
}

func result(path string) *goose.MigrationResult {
	return &goose.MigrationResult{Source: &goose.Source{Path: path}, Duration: time.Millisecond}
}

func (f *fakeProvider) Up(context.Context) ([]*goose.MigrationResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []*goose.MigrationResult{result("20260101000003_notifications.sql")}, nil
}

func (f *fakeProvider) Down(context.Context) (*goose.MigrationResult, error) {
	f.downCalls++
	return result("20260101000003_notifications.sql"), f.err
}

func (f *fakeProvider) DownTo(_ context.Context, v int64) ([]*goose.MigrationResult, error) {
	f.downTo = v
	return []*goose.MigrationResult{result("20260101000003_notifications.sql"), result("20260101000002_identities.sql")}, f.err
}

func (f *fakeProvider) Status(context.Context) ([]*goose.MigrationStatus, error) {
	return []*goose.MigrationStatus{
		{Source: &goose.Source{Path: "20260101000001_tenants.sql"}, State: goose.StateApplied, AppliedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		{Source: &goose.Source{Path: "20260101000002_identities.sql"}, State: goose.StatePending},
	}, f.err
}

func (f *fakeProvider) HasPending(context.Context) (bool, error) { return f.pending, f.err }

func (f *fakeProvider) GetDBVersion(context.Context) (int64, error) { return f.version, nil }

func TestMigrate(t *testing.T) {
	testCases := []struct {
		name     string
		args     migrateArgs
		provider *fakeProvider
		json     bool
		check    func(*testing.T, *fakeProvider, string, error)
	}{
		{
			name:     "up as text",
			args:     migrateArgs{command: "up", version: noVersion},
			provider: &fakeProvider{},
			check: func(t *testing.T, _ *fakeProvider, out string, err error) {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if !strings.Contains(out, "OK   20260101000003_notifications.sql") {
					t.Errorf("unexpected output %q", out)
				}
			},
		},
		{
			name:     "up as json",
			args:     migrateArgs{command: "up", version: noVersion},
			provider: &fakeProvider{},
			json:     true,
			check: func(t *testing.T, _ *fakeProvider, out string, err error) {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				var decoded map[string][]json.RawMessage
				if err := json.Unmarshal([]byte(out), &decoded); err != nil {
					t.Fatalf("output is not json: %v", err)
				}
				if len(decoded["applied"]) != 1 {
					t.Errorf("expected one applied migration, got %s", out)
				}
			},
		},
		{
			name:     "up fails",
			args:     migrateArgs{command: "up", version: noVersion},
			provider: &fakeProvider{err: errors.New("boom")},
			check: func(t *testing.T, _ *fakeProvider, _ string, err error) {
				if err == nil {
					t.Fatal("expected error but got none")
				}
			},
		},
		{
			name:     "down rolls back one",
			args:     migrateArgs{command: "down", version: noVersion},
			provider: &fakeProvider{},
			check: func(t *testing.T, p *fakeProvider, out string, err error) {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if p.downCalls != 1 || !strings.Contains(out, "DOWN") {
					t.Errorf("expected a single rollback, got %d calls and %q", p.downCalls, out)
				}
			},
		},
		{
			name:     "down to version",
			args:     migrateArgs{command: "down", version: 1},
			provider: &fakeProvider{},
			check: func(t *testing.T, p *fakeProvider, out string, err error) {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if p.downTo != 1 || strings.Count(out, "DOWN") != 2 {
					t.Errorf("expected rollback to version 1, got %d and %q", p.downTo, out)
				}
			},
		},
		{
			name:     "status table",
			args:     migrateArgs{command: "status", version: noVersion},
			provider: &fakeProvider{},
			check: func(t *testing.T, _ *fakeProvider, out string, err error) {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if !strings.Contains(out, "2026-01-01T00:00:00Z") || !strings.Contains(out, "Pending") {
					t.Errorf("unexpected output %q", out)
				}
			},
		},
		{
			name:     "check with pending migrations fails",
			args:     migrateArgs{command: "check", version: noVersion},
			provider: &fakeProvider{pending: true, version: 2},
			check: func(t *testing.T, _ *fakeProvider, _ string, err error) {
				if err == nil || !strings.Contains(err.Error(), "current version 2") {
					t.Errorf("expected pending error, got %v", err)
				}
			},
		},
		{
			name:     "check up to date",
			args:     migrateArgs{command: "check", version: noVersion},
			provider: &fakeProvider{version: 3},
			check: func(t *testing.T, _ *fakeProvider, out string, err error) {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if !strings.Contains(out, "version 3") {
					t.Errorf("unexpected output %q", out)
				}
			},
		},
		{
			name:     "check pending as json does not fail",
			args:     migrateArgs{command: "check", version: noVersion},
			provider: &fakeProvider{pending: true, version: 2},
			json:     true,
			check: func(t *testing.T, _ *fakeProvider, out string, err error) {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if !strings.Contains(out, `"status":"pending"`) {
					t.Errorf("unexpected output %q", out)
				}
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			buf := new(bytes.Buffer)
			err := migrate(context.Background(), tc.provider, &tc.args, &migrationReporter{out: buf, json: tc.json})
			tc.check(t, tc.provider, buf.String(), err)
		})
	}
}
