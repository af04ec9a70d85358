// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
)

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Inspect and validate namespace registries",
	Long: `Registry works with the namespace tables that map retrieval namespaces
to the RIS, YT and TAF source types. Without --registry (or registry.file
in the config) the built-in tables are used.`,
}

var registryShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the active registry as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := loadRegistry(loadConfig().Registry)
		if err != nil {
			return err
		}
		data, err := yaml.Marshal(reg.File())
		if err != nil {
			return fmt.Errorf("marshaling registry: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var registryValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check that a registry file is well formed and its tables are disjoint",
	Long: `Validate loads a registry file and fails if it has no version, contains
blank entries or registers any namespace under more than one source type.
With no argument the configured registry is checked.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig().Registry
		if len(args) > 0 {
			cfg.File = args[0]
		}
		reg, err := loadRegistry(cfg)
		if err != nil {
			return err
		}
		if err := reg.Validate(); err != nil {
			return err
		}

		name := cfg.File
		if name == "" {
			name = "built-in registry"
		}
		f := reg.File()
		fmt.Fprintf(cmd.OutOrStdout(), "%s: version %s OK (%d risale, %d youtube, %d tafsir)\n",
			name, reg.Version(), len(f.Risale), len(f.Video), len(f.Tafsir))
		return nil
	},
}

func init() {
	registryCmd.AddCommand(registryShowCmd)
	registryCmd.AddCommand(registryValidateCmd)
	rootCmd.AddCommand(registryCmd)
}

