package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pdf2md/internal/provider"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List available model identifiers per provider",
	Long: `Models prints each provider's known model identifiers and its default
model as YAML. With --provider, only that provider's catalog is shown.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("provider")

		catalogs := provider.Catalogs()
		if name != "" {
			var match []provider.Catalog
			for _, c := range catalogs {
				if c.Provider == name {
					match = append(match, c)
				}
			}
			if len(match) == 0 {
				return fmt.Errorf("unknown provider %q (supported: %v)", name, provider.Names())
			}
			catalogs = match
		}

		out, err := yaml.Marshal(catalogs)
		if err != nil {
			return fmt.Errorf("marshaling model catalogs: %w", err)
		}
		fmt.Print(string(out))
		return nil
	},
}

func init() {
	modelsCmd.Flags().String("provider", "", "show only this provider's models")
	rootCmd.AddCommand(modelsCmd)
}
