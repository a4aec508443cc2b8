// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/canonical/gym-membership-service/internal/types"
	"github.com/canonical/gym-membership-service/pkg/provisioning"
)

var memberCmd = &cobra.Command{
	Use:   "member",
	Short: "Manage trainers and members of a gym",
}

var addMemberCmd = &cobra.Command{
	Use:   "add [email] [role]",
	Short: "Add a trainer or a user to a gym",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		role, err := types.ParseRole(args[1])
		if err != nil {
			return err
		}

		firstName, _ := cmd.Flags().GetString("first-name")
		lastName, _ := cmd.Flags().GetString("last-name")
		phone, _ := cmd.Flags().GetString("phone")
		tenantID, _ := cmd.Flags().GetString("tenant-id")

		req := provisioning.MemberRequest{
			Email:     args[0],
			FirstName: firstName,
			LastName:  lastName,
			Phone:     phone,
			Role:      role,
			TenantID:  tenantID,
		}

		out := new(provisioning.Provisioned)
		if err := getClient().do(cmd.Context(), http.MethodPost, "/api/v0/members", req, out); err != nil {
			return fmt.Errorf("failed to add %s: %w", role, err)
		}

		cmd.Printf("%s created: %s (ID: %s)\n", out.Identity.Role, out.Identity.Email, out.Identity.ID)
		printInvitation(cmd, out)
		return nil
	},
}

var listMembersCmd = &cobra.Command{
	Use:   "list",
	Short: "List the identities of a gym",
	RunE: func(cmd *cobra.Command, args []string) error {
		tenantID, _ := cmd.Flags().GetString("tenant-id")
		page, _ := cmd.Flags().GetInt("page")
		size, _ := cmd.Flags().GetInt("size")

		q := url.Values{}
		if tenantID != "" {
			q.Set("tenant_id", tenantID)
		}
		q.Set("page", strconv.Itoa(page))
		q.Set("size", strconv.Itoa(size))

		var members []provisioning.IdentityView
		if err := getClient().do(cmd.Context(), http.MethodGet, "/api/v0/members?"+q.Encode(), nil, &members); err != nil {
			return fmt.Errorf("failed to list members: %w", err)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tEMAIL\tNAME\tROLE\tACTIVE\tINVITATION")
		for _, m := range members {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\t%s\n", m.ID, m.Email, m.FullName(), m.Role, m.IsActive, m.InvitationStatus)
		}
		return w.Flush()
	},
}

func setActiveCmd(use, short string, active bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [identity id]",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := new(types.Identity)
			req := provisioning.ActiveRequest{Active: &active}
			if err := getClient().do(cmd.Context(), http.MethodPut, "/api/v0/members/"+url.PathEscape(args[0])+"/active", req, out); err != nil {
				return fmt.Errorf("failed to %s identity: %w", use, err)
			}

			cmd.Printf("Identity %s is active: %t\n", out.ID, out.IsActive)
			return nil
		},
	}
}

func trainerPath(trainerID, memberID string) string {
	return "/api/v0/trainers/" + url.PathEscape(trainerID) + "/members/" + url.PathEscape(memberID)
}

var assignTrainerCmd = &cobra.Command{
	Use:   "assign [trainer id] [member id]",
	Short: "Assign a trainer to a member",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := getClient().do(cmd.Context(), http.MethodPut, trainerPath(args[0], args[1]), nil, nil); err != nil {
			return fmt.Errorf("failed to assign trainer: %w", err)
		}

		cmd.Printf("Trainer %s assigned to member %s\n", args[0], args[1])
		return nil
	},
}

var unassignTrainerCmd = &cobra.Command{
	Use:   "unassign [trainer id] [member id]",
	Short: "Remove a trainer from a member",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := getClient().do(cmd.Context(), http.MethodDelete, trainerPath(args[0], args[1]), nil, nil); err != nil {
			return fmt.Errorf("failed to unassign trainer: %w", err)
		}

		cmd.Printf("Trainer %s removed from member %s\n", args[0], args[1])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(memberCmd)
	memberCmd.AddCommand(addMemberCmd)
	memberCmd.AddCommand(listMembersCmd)
	memberCmd.AddCommand(setActiveCmd("activate", "Reactivate an identity", true))
	memberCmd.AddCommand(setActiveCmd("deactivate", "Deactivate an identity", false))
	memberCmd.AddCommand(assignTrainerCmd)
	memberCmd.AddCommand(unassignTrainerCmd)

	addMemberCmd.Flags().String("first-name", "", "First name")
	addMemberCmd.Flags().String("last-name", "", "Last name")
	addMemberCmd.Flags().String("phone", "", "Phone number")
	addMemberCmd.Flags().String("tenant-id", "", "Gym ID, only honoured for superusers")
	_ = addMemberCmd.MarkFlagRequired("first-name")
	_ = addMemberCmd.MarkFlagRequired("last-name")

	listMembersCmd.Flags().String("tenant-id", "", "Gym ID, only honoured for superusers")
	listMembersCmd.Flags().Int("page", 1, "Page number")
	listMembersCmd.Flags().Int("size", 50, "Page size")
}
