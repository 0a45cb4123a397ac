package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pylens/pylens/analyze"
)

// initCmd: pylens init
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			path = analyze.ConfigFileName
		}
		if err := os.WriteFile(path, []byte(analyze.DefaultConfigTOML), 0o644); err != nil {
			return fmt.Errorf("write config: %w", err)
		}
		fmt.Printf("Configuration file created: %s\n", path)
		return nil
	},
}
