// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/openfga/go-sdk/client"
	"github.com/spf13/cobra"
	corev1 "k8s.io/api/core/v1"
	k8serrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/retry"

	"github.com/canonical/gym-membership-service/internal/authorization"
	"github.com/canonical/gym-membership-service/internal/logging"
	"github.com/canonical/gym-membership-service/internal/monitoring"
	"github.com/canonical/gym-membership-service/internal/openfga"
	"github.com/canonical/gym-membership-service/internal/tracing"
)

// ConfigMap keys, named after the environment variables serve reads.
const (
	storeIDKey = "OPENFGA_STORE_ID"
	modelIDKey = "OPENFGA_AUTHORIZATION_MODEL_ID"
)

// createFgaModelCmd represents the createFgaModel command
var createFgaModelCmd = &cobra.Command{
	Use:   "create-fga-model",
	Short: "Creates the openfga model for gyms, trainers and members",
	Long: `Creates the openfga model for gyms, trainers and members.
A store is created first when none is given. The resulting ids can be written to a
Kubernetes ConfigMap consumed by serve.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := new(fgaModelOptions)
		opts.apiURL, _ = cmd.Flags().GetString("fga-api-url")
		opts.apiToken, _ = cmd.Flags().GetString("fga-api-token")
		opts.storeID, _ = cmd.Flags().GetString("fga-store-id")
		opts.modelVersion, _ = cmd.Flags().GetString("model-version")
		opts.verbose, _ = cmd.Flags().GetBool("verbose")
		format, _ := cmd.Flags().GetString("format")
		configMapResource, _ := cmd.Flags().GetString("store-k8s-configmap-resource")
		kubeconfigPath, _ := cmd.Flags().GetString("kubeconfig")

		if printOnly, _ := cmd.Flags().GetBool("print"); printOnly {
			return json.NewEncoder(cmd.OutOrStdout()).Encode(authorization.NewAuthorizationModelProvider(opts.modelVersion).GetModel())
		}

		if opts.apiURL == "" || opts.apiToken == "" {
			return fmt.Errorf("--fga-api-url and --fga-api-token are required")
		}

		ids, err := createModel(cmd.Context(), opts)
		if err != nil {
			return err
		}

		if configMapResource != "" {
			clientset, err := kubeClient(kubeconfigPath)
			if err != nil {
				return err
			}
			if err := upsertConfigMap(cmd.Context(), clientset, configMapResource, ids); err != nil {
				return fmt.Errorf("failed to update configmap: %w", err)
			}
			cmd.Printf("ConfigMap %s updated successfully\n", configMapResource)
		}

		if format == "json" {
			return json.NewEncoder(cmd.OutOrStdout()).Encode(ids)
		}

		cmd.Printf("Created model: %s\n", ids.ModelID)
		if ids.StoreCreated {
			cmd.Printf("Created store: %s\n", ids.StoreID)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(createFgaModelCmd)

	createFgaModelCmd.Flags().String("fga-api-url", "", "The openfga API URL")
	createFgaModelCmd.Flags().String("fga-api-token", "", "The openfga API token")
	createFgaModelCmd.Flags().String("fga-store-id", "", "The openfga store to create the model in, if empty one will be created")
	createFgaModelCmd.Flags().String("model-version", "v0", "Version of the authorization model to write")
	createFgaModelCmd.Flags().Bool("print", false, "Print the model as JSON and exit without contacting openfga")
	createFgaModelCmd.Flags().String("format", "text", "Output format (text or json)")
	createFgaModelCmd.Flags().BoolP("verbose", "v", false, "Enable verbose logging")
	createFgaModelCmd.Flags().String("store-k8s-configmap-resource", "", "The configmap resource to store the FGA Store ID and Model ID, format: namespace/name")
	createFgaModelCmd.Flags().String("kubeconfig", "", "Path to the kubeconfig file (optional, defaults to in-cluster config)")
}

type fgaModelOptions struct {
	apiURL       string
	apiToken     string
	storeID      string
	modelVersion string
	verbose      bool
}

type fgaModelIDs struct {
	StoreID      string `json:"store_id"`
	ModelID      string `json:"model_id"`
	StoreCreated bool   `json:"store_created"`
}

func createModel(ctx context.Context, opts *fgaModelOptions) (*fgaModelIDs, error) {
	u, err := url.Parse(opts.apiURL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("failed to parse url %q: %v", opts.apiURL, err)
	}

	logger := logging.NewNoopLogger()
	if opts.verbose {
		logger = logging.NewLogger("debug")
	}

	// no model id yet, so the config skips model validation
	fgaClient := openfga.NewClient(&openfga.Config{
		ApiScheme: u.Scheme,
		ApiHost:   u.Host,
		StoreID:   opts.storeID,
		ApiToken:  opts.apiToken,
		Debug:     opts.verbose,
		Tracer:    tracing.NewNoopTracer(),
		Monitor:   monitoring.NewNoopMonitor(serviceName),
		Logger:    logger,
	})

	ids := &fgaModelIDs{StoreID: opts.storeID}
	if ids.StoreID == "" {
		if ids.StoreID, err = fgaClient.CreateStore(ctx, serviceName); err != nil {
			return nil, fmt.Errorf("failed to create store: %w", err)
		}
		ids.StoreCreated = true
		fgaClient.SetStoreID(ctx, ids.StoreID)
	}

	model := authorization.NewAuthorizationModelProvider(opts.modelVersion).GetModel()
	ids.ModelID, err = fgaClient.WriteModel(ctx, &client.ClientWriteAuthorizationModelRequest{
		TypeDefinitions: model.TypeDefinitions,
		SchemaVersion:   model.SchemaVersion,
		Conditions:      model.Conditions,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to write model: %w", err)
	}

	return ids, nil
}

func kubeClient(kubeconfigPath string) (kubernetes.Interface, error) {
	var config *rest.Config
	var err error

	if kubeconfigPath != "" {
		config, err = clientcmd.BuildConfigFromFlags("", kubeconfigPath)
	} else if config, err = rest.InClusterConfig(); err != nil {
		// running outside a cluster, use the default loading rules
		config, err = clientcmd.NewNonInteractiveDeferredLoadingClientConfig(
			clientcmd.NewDefaultClientConfigLoadingRules(),
			&clientcmd.ConfigOverrides{},
		).ClientConfig()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load kubeconfig: %w", err)
	}

	clientset, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes client: %w", err)
	}

	return clientset, nil
}

// upsertConfigMap writes the store and model ids into namespace/name, creating the ConfigMap
// when missing. Concurrent writers are retried on conflict.
func upsertConfigMap(ctx context.Context, clientset kubernetes.Interface, resource string, ids *fgaModelIDs) error {
	namespace, name, ok := strings.Cut(resource, "/")
	if !ok || namespace == "" || name == "" || strings.Contains(name, "/") {
		return fmt.Errorf("invalid configmap resource format: %s, expected namespace/name", resource)
	}

	configMaps := clientset.CoreV1().ConfigMaps(namespace)

	return retry.RetryOnConflict(retry.DefaultRetry, func() error {
		cm, err := configMaps.Get(ctx, name, metav1.GetOptions{})
		if k8serrors.IsNotFound(err) {
			cm = &corev1.ConfigMap{
				ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: namespace},
				Data:       map[string]string{storeIDKey: ids.StoreID, modelIDKey: ids.ModelID},
			}
			if _, err := configMaps.Create(ctx, cm, metav1.CreateOptions{}); err != nil {
				return fmt.Errorf("failed to create configmap %s: %w", resource, err)
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get configmap %s: %w", resource, err)
		}

		if cm.Data == nil {
			cm.Data = make(map[string]string)
		}
		cm.Data[storeIDKey] = ids.StoreID
		cm.Data[modelIDKey] = ids.ModelID

		_, err = configMaps.Update(ctx, cm, metav1.UpdateOptions{})
		return err
	})
}
