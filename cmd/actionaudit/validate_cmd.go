package main

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/hardenedci/actionaudit/pkg/registry"
	"github.com/spf13/cobra"
)

func newValidateCommand() *cobra.Command {
	var (
		filePath string
		dir      string
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Schema-validate workflows, composite actions, and Dependabot config without running audits",
		Long: `Validate collects the same inputs as "audit" but only checks them
against their JSON Schema and parses them into the semantic model,
reporting syntax/schema/model errors without running any audit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := registry.New(true)

			if filePath != "" {
				if err := reg.CollectFile(readFileAsString, filePath); err != nil {
					fmt.Fprintln(cmd.OutOrStdout(), err)
					return errFindingsPresent
				}
			} else {
				root := dir
				if root == "" {
					root = "."
				}
				var fsys fs.FS = os.DirFS(root)
				dirFS, ok := fsys.(registry.DirFS)
				if !ok {
					return fmt.Errorf("actionaudit: local filesystem does not support ReadFile")
				}
				if err := reg.CollectDir(dirFS, "."); err != nil {
					fmt.Fprintln(cmd.OutOrStdout(), err)
					return errFindingsPresent
				}
			}

			entries := reg.Entries()
			fmt.Fprintf(cmd.OutOrStdout(), "%d input(s) validated\n", len(entries))
			return nil
		},
	}

	cmd.Flags().StringVar(&filePath, "file", "", "Validate a single explicit file")
	cmd.Flags().StringVar(&dir, "dir", "", "Repository root to scan (default: current directory)")

	return cmd
}
