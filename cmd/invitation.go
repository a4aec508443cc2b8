// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/canonical/gym-membership-service/internal/types"
	"github.com/canonical/gym-membership-service/pkg/invitations"
)

var invitationCmd = &cobra.Command{
	Use:   "invitation",
	Short: "Manage invitations of identities that have not signed in yet",
}

var invitationStatusCmd = &cobra.Command{
	Use:   "status [identity id]",
	Short: "Show the invitation status of an identity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := new(invitations.StatusReport)
		if err := getClient().do(cmd.Context(), http.MethodGet, "/api/v0/members/"+url.PathEscape(args[0])+"/invitation", nil, out); err != nil {
			return fmt.Errorf("failed to fetch invitation status: %w", err)
		}

		cmd.Printf("%s (%s): %s\n", out.Email, out.IdentityID, out.Status)
		for _, i := range out.Invitations {
			if i.ExpiresAt != nil {
				cmd.Printf("  %s expires at %s\n", i.ID, i.ExpiresAt.Format("2006-01-02 15:04"))
			}
		}
		return nil
	},
}

var resendInvitationCmd = &cobra.Command{
	Use:   "resend [identity id]",
	Short: "Revoke outstanding invitations of an identity and send a new one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := new(types.Invitation)
		if err := getClient().do(cmd.Context(), http.MethodPost, "/api/v0/members/"+url.PathEscape(args[0])+"/invitation", nil, out); err != nil {
			return fmt.Errorf("failed to resend invitation: %w", err)
		}

		if out.Link != "" {
			cmd.Printf("Invitation link: %s\n", out.Link)
		} else {
			cmd.Printf("Invitation sent to %s\n", out.Email)
		}
		return nil
	},
}

var revokeInvitationCmd = &cobra.Command{
	Use:   "revoke [email]",
	Short: "Revoke every outstanding invitation for an email",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := new(invitations.RevokeResponse)
		req := invitations.RevokeRequest{Email: args[0]}
		if err := getClient().do(cmd.Context(), http.MethodPost, "/api/v0/invitations/revoke", req, out); err != nil {
			return fmt.Errorf("failed to revoke invitations: %w", err)
		}

		cmd.Printf("Revoked %d invitation(s) for %s\n", out.Revoked, out.Email)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(invitationCmd)
	invitationCmd.AddCommand(invitationStatusCmd)
	invitationCmd.AddCommand(resendInvitationCmd)
	invitationCmd.AddCommand(revokeInvitationCmd)
}
