// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"fmt"
	"net/http"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/canonical/gym-membership-service/internal/types"
	"github.com/canonical/gym-membership-service/pkg/provisioning"
)

var tenantCmd = &cobra.Command{
	Use:   "tenant",
	Short: "Manage gyms and their admins",
}

var createTenantCmd = &cobra.Command{
	Use:   "create [gym name] [admin email]",
	Short: "Create a gym together with its first admin",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		firstName, _ := cmd.Flags().GetString("first-name")
		lastName, _ := cmd.Flags().GetString("last-name")
		phone, _ := cmd.Flags().GetString("phone")
		address, _ := cmd.Flags().GetString("address")

		req := provisioning.AdminRequest{
			Email:     args[1],
			FirstName: firstName,
			LastName:  lastName,
			Tenant: provisioning.TenantDetails{
				Name:    args[0],
				Phone:   phone,
				Address: address,
			},
		}

		out := new(provisioning.Provisioned)
		if err := getClient().do(cmd.Context(), http.MethodPost, "/api/v0/admins", req, out); err != nil {
			return fmt.Errorf("failed to create gym: %w", err)
		}

		cmd.Printf("Gym created: %s (ID: %s)\n", out.Tenant.Name, out.Tenant.ID)
		cmd.Printf("Admin created: %s (ID: %s)\n", out.Identity.Email, out.Identity.ID)
		printInvitation(cmd, out)
		return nil
	},
}

var listTenantsCmd = &cobra.Command{
	Use:   "list",
	Short: "List all gyms",
	RunE: func(cmd *cobra.Command, args []string) error {
		var tenants []*types.Tenant
		if err := getClient().do(cmd.Context(), http.MethodGet, "/api/v0/tenants", nil, &tenants); err != nil {
			return fmt.Errorf("failed to list gyms: %w", err)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tEMAIL\tCREATED AT")
		for _, t := range tenants {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.ID, t.Name, t.Email, t.CreatedAt.Format("2006-01-02"))
		}
		return w.Flush()
	},
}

func printInvitation(cmd *cobra.Command, p *provisioning.Provisioned) {
	switch {
	case p.InvitationError != "":
		cmd.Printf("Invitation failed: %s, retry with `invitation resend`\n", p.InvitationError)
	case p.Invitation != nil && p.Invitation.Link != "":
		cmd.Printf("Invitation link: %s\n", p.Invitation.Link)
	case p.Invitation != nil:
		cmd.Printf("Invitation sent to %s\n", p.Invitation.Email)
	}
}

func init() {
	rootCmd.AddCommand(tenantCmd)
	tenantCmd.AddCommand(createTenantCmd)
	tenantCmd.AddCommand(listTenantsCmd)

	createTenantCmd.Flags().String("first-name", "", "First name of the admin")
	createTenantCmd.Flags().String("last-name", "", "Last name of the admin")
	createTenantCmd.Flags().String("phone", "", "Phone number of the gym")
	createTenantCmd.Flags().String("address", "", "Address of the gym")
	_ = createTenantCmd.MarkFlagRequired("first-name")
	_ = createTenantCmd.MarkFlagRequired("last-name")
}
