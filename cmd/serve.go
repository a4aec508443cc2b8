// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/canonical/gym-membership-service/internal/authorization"
	"github.com/canonical/gym-membership-service/internal/config"
	"github.com/canonical/gym-membership-service/internal/db"
	"github.com/canonical/gym-membership-service/internal/kratos"
	"github.com/canonical/gym-membership-service/internal/logging"
	"github.com/canonical/gym-membership-service/internal/monitoring"
	"github.com/canonical/gym-membership-service/internal/monitoring/prometheus"
	"github.com/canonical/gym-membership-service/internal/openfga"
	"github.com/canonical/gym-membership-service/internal/storage"
	"github.com/canonical/gym-membership-service/internal/tracing"
	"github.com/canonical/gym-membership-service/internal/validation"
	"github.com/canonical/gym-membership-service/pkg/access"
	"github.com/canonical/gym-membership-service/pkg/authentication"
	"github.com/canonical/gym-membership-service/pkg/invitations"
	"github.com/canonical/gym-membership-service/pkg/notifications"
	"github.com/canonical/gym-membership-service/pkg/provisioning"
	"github.com/canonical/gym-membership-service/pkg/reconciliation"
	"github.com/canonical/gym-membership-service/pkg/web"
	"github.com/canonical/gym-membership-service/pkg/webhooks"
)

const serviceName = "gym-membership-service"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "serve starts the web server",
	Long:  `Launch the web application, list of environment variables is available in the readme`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := serve(); err != nil {
			fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func loadSpecs() *config.EnvSpec {
	specs := new(config.EnvSpec)
	if err := envconfig.Process("", specs); err != nil {
		panic(fmt.Errorf("issues with environment sourcing: %s", err))
	}
	return specs
}

func newDBClient(specs *config.EnvSpec, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) (*db.DBClient, error) {
	return db.NewDBClient(
		db.Config{
			DSN:             specs.DSN,
			MaxConns:        specs.DBMaxConns,
			MinConns:        specs.DBMinConns,
			MaxConnLifetime: specs.DBMaxConnLifetime,
			MaxConnIdleTime: specs.DBMaxConnIdleTime,
			TxTimeout:       specs.DBTxTimeout,
			TracingEnabled:  specs.TracingEnabled,
		},
		tracer,
		monitor,
		logger,
	)
}

func newAuthorizer(specs *config.EnvSpec, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *authorization.Authorizer {
	if !specs.AuthorizationEnabled {
		logger.Info("Using noop authorizer")
		return authorization.NewAuthorizer(openfga.NewNoopClient(tracer, monitor, logger), tracer, monitor, logger)
	}

	ofga := openfga.NewClient(
		openfga.NewConfig(
			specs.OpenfgaApiScheme,
			specs.OpenfgaApiHost,
			specs.OpenfgaStoreId,
			specs.OpenfgaApiToken,
			specs.OpenfgaModelId,
			specs.Debug,
			tracer,
			monitor,
			logger,
		),
	)
	authorizer := authorization.NewAuthorizer(ofga, tracer, monitor, logger)
	logger.Info("Authorization is enabled")
	if authorizer.ValidateModel(context.Background()) != nil {
		panic("Invalid authorization model provided")
	}

	return authorizer
}

func newVerifier(ctx context.Context, specs *config.EnvSpec, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) (authentication.TokenVerifierInterface, error) {
	if !specs.AuthenticationEnabled {
		logger.Info("JWT authentication is disabled, only provider sessions are accepted")
		return authentication.NewNoopVerifier(), nil
	}

	audience := ""
	if len(specs.JWTAudience) > 0 {
		audience = specs.JWTAudience[0]
	}

	return authentication.NewJWTAuthenticator(ctx, specs.JWTIssuer, specs.JWKSURL, audience, specs.RequireVerifiedEmail, tracer, monitor, logger)
}

func serve() error {
	specs := loadSpecs()

	logger := logging.NewLogger(specs.LogLevel)
	defer logger.Sync()

	monitor := prometheus.NewMonitor(serviceName, logger)
	tracer := tracing.NewTracer(tracing.NewConfig(specs.TracingEnabled, specs.OtelGRPCEndpoint, specs.OtelHTTPEndpoint, specs.TraceSampleRatio, logger))

	dbClient, err := newDBClient(specs, tracer, monitor, logger)
	if err != nil {
		return fmt.Errorf("failed to create database client: %v", err)
	}
	defer dbClient.Close()

	s := storage.NewStorage(dbClient, tracer, monitor, logger)
	authorizer := newAuthorizer(specs, tracer, monitor, logger)

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

	verifier, err := newVerifier(context.Background(), specs, tracer, monitor, logger)
	if err != nil {
		return fmt.Errorf("failed to set up authentication: %v", err)
	}
	authn := authentication.NewMiddleware(verifier, kratosClient, tracer, monitor, logger)

	resolver := reconciliation.NewService(s, kratosClient, tracer, monitor, logger)
	invitationService := invitations.NewService(kratosClient, s, tracer, monitor, logger)

	services := web.Services{
		Access:        access.NewService(resolver, s, authorizer, tracer, monitor, logger),
		Provisioning:  provisioning.NewService(s, dbClient, authorizer, invitationService, validation.NewValidator(), tracer, monitor, logger),
		Invitations:   invitationService,
		Notifications: notifications.NewService(s, tracer, monitor, logger),
		Webhooks:      webhooks.NewService(resolver, s, tracer, monitor, logger),
	}

	lis, err := net.Listen("tcp", fmt.Sprintf("0.0.0.0:%v", specs.GRPCPort))
	if err != nil {
		return fmt.Errorf("failed to listen on grpc port: %v", err)
	}

	healthServer := health.NewServer()
	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.UnaryInterceptor(authn.GRPCInterceptor),
	)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	go func() {
		logger.Infof("Starting gRPC server on port %v", specs.GRPCPort)
		if err := grpcServer.Serve(lis); err != nil {
			logger.Errorf("failed to serve gRPC: %v", err)
		}
	}()

	if specs.WebhookAPIKey == "" {
		logger.Warn("WEBHOOK_API_KEY is not set, login and token hooks will be rejected")
	}

	router := web.NewRouter(
		web.Config{
			AllowedOrigins: specs.CORSAllowedOrigins,
			WebhookAPIKey:  specs.WebhookAPIKey,
			SignInURL:      specs.SignInURL,
		},
		services,
		authn,
		dbClient,
		tracer,
		monitor,
		logger,
	)
	logger.Infof("Starting HTTP server on port %v", specs.Port)

	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%v", specs.Port),
		WriteTimeout: time.Second * 60,
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,
		Handler:      router,
	}

	var serverError error
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Security().SystemStartup()
		healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError = fmt.Errorf("server error: %w", err)
			c <- os.Interrupt
		}
	}()

	<-c

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logger.Security().SystemShutdown()
	healthServer.Shutdown()
	grpcServer.GracefulStop()

	if err := srv.Shutdown(ctx); err != nil {
		serverError = fmt.Errorf("server shutdown error: %w", err)
	}

	return serverError
}
