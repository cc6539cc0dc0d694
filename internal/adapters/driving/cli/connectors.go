package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
)

var connectorsCmd = &cobra.Command{
	Use:   "connectors",
	Short: "List available connector types",
	Long:  `Shows every registered connector and the credentials and settings it expects.`,
	RunE:  runConnectors,
}

func init() {
	rootCmd.AddCommand(connectorsCmd)
}

func runConnectors(cmd *cobra.Command, _ []string) error {
	if connectorRegistry == nil {
		return errors.New("connector registry not configured")
	}

	for _, meta := range connectorRegistry.List() {
		cmd.Printf("%s - %s\n", meta.ID, meta.Name)
		cmd.Printf("  %s\n", meta.Description)
		if len(meta.CredentialKeys) > 0 {
			cmd.Printf("  Credentials: %s\n", strings.Join(meta.CredentialKeys, ", "))
		}
		if len(meta.ConfigKeys) > 0 {
			cmd.Println("  Settings:")
			for _, key := range meta.ConfigKeys {
				marker := ""
				if key.Required {
					marker = " (required)"
				}
				cmd.Printf("    %s%s - %s\n", key.Key, marker, key.Description)
			}
		}
		cmd.Println()
	}
	return nil
}
