package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/datalink-dev/restquery/packages/config"
)

var validateFile string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a datasource configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(validateFile)
		if err != nil {
			return err
		}

		var doc struct {
			Datasource map[string]any `yaml:"datasource"`
		}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parse %s: %w", validateFile, err)
		}
		if doc.Datasource == nil {
			return fmt.Errorf("%s has no datasource section", validateFile)
		}

		messages, err := config.ValidateDatasourceConfig(doc.Datasource)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(messages) == 0 {
			color.New(color.FgGreen).Fprintf(out, "✓ %s is valid\n", validateFile)
			return nil
		}
		for _, msg := range messages {
			color.New(color.FgRed).Fprintf(out, "✗ %s\n", msg)
		}
		return fmt.Errorf("%d validation error(s)", len(messages))
	},
}

func init() {
	validateCmd.Flags().StringVarP(&validateFile, "file", "f", "", "datasource definition file (required)")
	_ = validateCmd.MarkFlagRequired("file")
}
