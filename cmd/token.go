// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

type tokenOptions struct {
	clientID     string
	clientSecret string
	tokenURL     string
	issuerURL    string
	audience     string
	scopes       []string
}

var tokenOpts = new(tokenOptions)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Get an access token using Client Credentials flow",
	Long:  `Get an access token using Client Credentials flow, pass it to the other commands with --token or $GYM_ACCESS_TOKEN`,
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := fetchToken(cmd.Context(), tokenOpts)
		if err != nil {
			return err
		}

		if format, _ := cmd.Flags().GetString("format"); format == "json" {
			return json.NewEncoder(cmd.OutOrStdout()).Encode(token)
		}

		cmd.Println(token.AccessToken)
		return nil
	},
}

func (o *tokenOptions) config(ctx context.Context) (*clientcredentials.Config, error) {
	tokenURL := o.tokenURL
	if tokenURL == "" {
		if o.issuerURL == "" {
			return nil, errors.New("either --token-url or --issuer-url must be provided")
		}

		provider, err := oidc.NewProvider(ctx, o.issuerURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create OIDC provider from issuer: %w", err)
		}
		tokenURL = provider.Endpoint().TokenURL
	}

	cfg := &clientcredentials.Config{
		ClientID:     o.clientID,
		ClientSecret: o.clientSecret,
		TokenURL:     tokenURL,
		Scopes:       o.scopes,
	}
	if o.audience != "" {
		cfg.EndpointParams = url.Values{"audience": {o.audience}}
	}

	return cfg, nil
}

func fetchToken(ctx context.Context, o *tokenOptions) (*oauth2.Token, error) {
	cfg, err := o.config(ctx)
	if err != nil {
		return nil, err
	}

	token, err := cfg.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get token: %w", err)
	}

	return token, nil
}

func init() {
	rootCmd.AddCommand(tokenCmd)

	tokenCmd.Flags().StringVar(&tokenOpts.clientID, "client-id", "", "Client ID")
	tokenCmd.Flags().StringVar(&tokenOpts.clientSecret, "client-secret", "", "Client Secret")
	tokenCmd.Flags().StringVar(&tokenOpts.tokenURL, "token-url", "", "Token URL")
	tokenCmd.Flags().StringVar(&tokenOpts.issuerURL, "issuer-url", "", "Issuer URL (for OIDC discovery)")
	tokenCmd.Flags().StringVar(&tokenOpts.audience, "audience", "", "Audience to request, must match JWT_AUDIENCE of the server")
	tokenCmd.Flags().StringSliceVar(&tokenOpts.scopes, "scopes", []string{"openid"}, "Scopes (comma-separated)")
	tokenCmd.Flags().String("format", "text", "Output format (text or json)")

	_ = tokenCmd.MarkFlagRequired("client-id")
	_ = tokenCmd.MarkFlagRequired("client-secret")
}
