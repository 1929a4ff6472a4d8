package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	outputYAML = "yaml"
	outputJSON = "json"
)

func (cli *commandLine) checkCmd() *cobra.Command {
	var file, output string

	cmd := &cobra.Command{
		Use:   "check -f FILE",
		Short: "Run a submission file through the validation pipeline",
		Long: `Run a submission file through the validation pipeline.

The file holds a single submission in YAML or JSON (JSON being valid YAML).
On success the sanitized submission is printed; otherwise the first error is returned.
Use "-f -" to read from stdin.`,
		Example: `  admin check -f ebook.yaml
  cat ebook.json | admin check -f - -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" || !(output == outputYAML || output == outputJSON) {
				_ = cmd.Usage()
				return errHelp
			}
			return cli.check(cmd, file, output)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "submission file (required)")
	cmd.Flags().StringVarP(&output, "output", "o", outputYAML, "output format: yaml|json")
	return cmd
}

func (cli *commandLine) check(cmd *cobra.Command, file, output string) error {
	var data []byte
	var err error
	if file == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return err
	}

	var raw map[string]interface{}
	if err = yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parsing %s: %w", file, err)
	}
	if raw == nil {
		return fmt.Errorf("parsing %s: empty submission", file)
	}

	sub, err := cli.validator.SubmitRaw(raw)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if output == outputJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(sub)
	}
	enc := yaml.NewEncoder(out)
	defer enc.Close()
	return enc.Encode(sub)
}
