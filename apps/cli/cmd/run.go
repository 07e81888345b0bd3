package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/datalink-dev/restquery/packages/config"
	"github.com/datalink-dev/restquery/packages/engine"
	"github.com/datalink-dev/restquery/packages/plugin"
)

var (
	runFile    string
	runParams  []string
	runExtract string
	runTimeout time.Duration
)

// queryFile is the YAML document consumed by `restquery run`.
type queryFile struct {
	Datasource config.DatasourceConfig `yaml:"datasource"`
	Query      config.QueryConfig      `yaml:"query"`
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute a query described by a YAML file",
	Example: `  restquery run -f query.yaml
  restquery run -f query.yaml --param id=5 --extract data.0.name`,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(runFile)
		if err != nil {
			return err
		}

		var qf queryFile
		if err := yaml.Unmarshal(data, &qf); err != nil {
			return fmt.Errorf("parse %s: %w", runFile, err)
		}
		qf.Query.HTTPMethod = strings.ToUpper(strings.TrimSpace(qf.Query.HTTPMethod))

		params := make(map[string]any, len(runParams))
		for _, p := range runParams {
			key, value, found := strings.Cut(p, "=")
			if !found {
				return fmt.Errorf("invalid --param %q, expected key=value", p)
			}
			params[key] = value
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), runTimeout)
		defer cancel()

		eng := plugin.New(
			plugin.WithLogger(cliLogger()),
			plugin.WithExecutor(engine.NewExecutor(
				engine.WithLogger(cliLogger()),
				engine.WithTimeout(runTimeout),
			)),
		)

		result, err := eng.ExecuteQuery(ctx, nil, &qf.Datasource, &qf.Query, params, nil)
		if err != nil {
			return err
		}
		if !result.Success() {
			return result.Error
		}

		return printResult(cmd, result)
	},
}

func printResult(cmd *cobra.Command, result *engine.ExecutionResult) error {
	out := cmd.OutOrStdout()

	statusColor := color.New(color.FgGreen, color.Bold)
	if result.StatusCode >= 400 {
		statusColor = color.New(color.FgRed, color.Bold)
	} else if result.StatusCode >= 300 {
		statusColor = color.New(color.FgYellow, color.Bold)
	}
	statusColor.Fprintf(out, "HTTP %d\n", result.StatusCode)

	keys := make([]string, 0, len(result.Headers))
	for k := range result.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(out, "%s: %s\n", color.CyanString(k), strings.Join(result.Headers[k], ", "))
	}
	fmt.Fprintln(out)

	if result.Body == nil {
		return nil
	}

	body, err := json.MarshalIndent(result.Body, "", "  ")
	if err != nil {
		return err
	}

	if runExtract != "" {
		if result.DataType() != engine.DataTypeJSON {
			return fmt.Errorf("--extract requires a JSON response, got %s", result.DataType())
		}
		value := gjson.GetBytes(body, runExtract)
		if !value.Exists() {
			return fmt.Errorf("path %q not found in response", runExtract)
		}
		fmt.Fprintln(out, value.String())
		return nil
	}

	if text, ok := result.Body.(string); ok {
		fmt.Fprintln(out, text)
		return nil
	}
	fmt.Fprintln(out, string(body))
	return nil
}

func init() {
	runCmd.Flags().StringVarP(&runFile, "file", "f", "", "query definition file (required)")
	runCmd.Flags().StringArrayVar(&runParams, "param", nil, "runtime parameter key=value (repeatable)")
	runCmd.Flags().StringVar(&runExtract, "extract", "", "gjson path to extract from a JSON response")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", engine.DefaultTimeout, "request timeout")
	_ = runCmd.MarkFlagRequired("file")
}
