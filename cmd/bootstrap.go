// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/canonical/gym-membership-service/internal/authorization"
	"github.com/canonical/gym-membership-service/internal/kratos"
	"github.com/canonical/gym-membership-service/internal/logging"
	"github.com/canonical/gym-membership-service/internal/monitoring"
	"github.com/canonical/gym-membership-service/internal/openfga"
	"github.com/canonical/gym-membership-service/internal/storage"
	"github.com/canonical/gym-membership-service/internal/tracing"
	"github.com/canonical/gym-membership-service/internal/validation"
	"github.com/canonical/gym-membership-service/pkg/invitations"
	"github.com/canonical/gym-membership-service/pkg/provisioning"
)

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap-superuser [email]",
	Short: "Create a superuser and invite them",
	Long: `Create a superuser and send them an invitation through the identity provider.
Superusers cannot be created through the API, this is the only way to seed one.
Reads the same environment variables as serve.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		firstName, _ := cmd.Flags().GetString("first-name")
		lastName, _ := cmd.Flags().GetString("last-name")
		phone, _ := cmd.Flags().GetString("phone")

		specs := loadSpecs()

		logger := logging.NewLogger(specs.LogLevel)
		defer logger.Sync()

		tracer := tracing.NewNoopTracer()
		monitor := monitoring.NewNoopMonitor(serviceName)

		dbClient, err := newDBClient(specs, tracer, monitor, logger)
		if err != nil {
			return fmt.Errorf("failed to create database client: %w", err)
		}
		defer dbClient.Close()

		kratosClient := kratos.NewClient(
			kratos.Config{
				AdminURL:             specs.KratosAdminURL,
				PublicURL:            specs.KratosPublicURL,
				InvitationLifetime:   specs.InvitationLifetime,
				RequireVerifiedEmail: specs.RequireVerifiedEmail,
			},
			tracer,
			monitor,
			logger,
		)

		s := storage.NewStorage(dbClient, tracer, monitor, logger)
		svc := provisioning.NewService(
			s,
			dbClient,
			authorization.NewAuthorizer(openfga.NewNoopClient(tracer, monitor, logger), tracer, monitor, logger),
			invitations.NewService(kratosClient, s, tracer, monitor, logger),
			validation.NewValidator(),
			tracer,
			monitor,
			logger,
		)

		result, err := svc.BootstrapSuperuser(cmd.Context(), &provisioning.SuperuserRequest{
			Email:     args[0],
			FirstName: firstName,
			LastName:  lastName,
			Phone:     phone,
		})
		if err != nil {
			return fmt.Errorf("failed to create superuser: %w", err)
		}

		cmd.Printf("Superuser created: %s (ID: %s)\n", result.Identity.Email, result.Identity.ID)
		printInvitation(cmd, result)
		if result.InvitationError != "" {
			os.Exit(2)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(bootstrapCmd)

	bootstrapCmd.Flags().String("first-name", "", "First name of the superuser")
	bootstrapCmd.Flags().String("last-name", "", "Last name of the superuser")
	bootstrapCmd.Flags().String("phone", "", "Phone number of the superuser")
	_ = bootstrapCmd.MarkFlagRequired("first-name")
	_ = bootstrapCmd.MarkFlagRequired("last-name")
}
