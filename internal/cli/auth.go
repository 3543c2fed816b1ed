package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	authName     string
	authEmail    string
	authPassword string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and print its session token",
	Example: `  catalogctl register --name Ada --email ada@example.com --password secret1
  export CATALOG_TOKEN=$(catalogctl login --email ada@example.com --password secret1)`,
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := apiClient.Register(commandContext(cmd), authName, authEmail, authPassword)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), formatSuccess("Account created"))
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and print a session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := apiClient.Login(commandContext(cmd), authEmail, authPassword)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), formatSuccess("Logged in"))
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the user the current token belongs to",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireToken(); err != nil {
			return err
		}
		me, err := apiClient.Me(commandContext(cmd))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s <%s>\n%s\n", me.Name, me.Email, formatMuted(me.ID.String()))
		return nil
	},
}

func init() {
	registerCmd.Flags().StringVar(&authName, "name", "", "display name")
	for _, c := range []*cobra.Command{registerCmd, loginCmd} {
		c.Flags().StringVar(&authEmail, "email", "", "account email")
		c.Flags().StringVar(&authPassword, "password", "", "account password")
		_ = c.MarkFlagRequired("email")
		_ = c.MarkFlagRequired("password")
	}
	_ = registerCmd.MarkFlagRequired("name")
}
