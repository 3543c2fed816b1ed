// Package cli implements catalogctl, a terminal client for the asset catalog API.
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Nakul-Jaglan/thob3d-assignment/internal/client"
)

const defaultServer = "http://localhost:8080"

var (
	serverURL string
	authToken string
	timeout   time.Duration

	apiClient *client.Client
)

var rootCmd = &cobra.Command{
	Use:   "catalogctl",
	Short: "Command-line client for the digital asset catalog",
	Long: styleTitle.Render("catalogctl") + " - digital asset catalog client\n\n" +
		"Register, log in and manage asset records. The token is read from --token or\n" +
		"CATALOG_TOKEN, the server address from --server or CATALOG_SERVER.",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initClient,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, formatError(err.Error()))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "API base URL (default $CATALOG_SERVER or "+defaultServer+")")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", "", "session token (default $CATALOG_TOKEN)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "request timeout")

	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(assetsCmd)
	rootCmd.AddCommand(seedCmd)
}

func initClient(cmd *cobra.Command, args []string) error {
	server := firstNonEmpty(serverURL, os.Getenv("CATALOG_SERVER"), defaultServer)
	token := firstNonEmpty(authToken, os.Getenv("CATALOG_TOKEN"))
	apiClient = client.New(server, token)
	apiClient.HTTP.Timeout = timeout
	return nil
}

func requireToken() error {
	if apiClient == nil || apiClient.Token == "" {
		return fmt.Errorf("not logged in: pass --token or set CATALOG_TOKEN")
	}
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
