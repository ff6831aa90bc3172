// Command actionaudit is a thin cobra CLI wiring the input registry, the
// audit dispatcher, and a plain-text finding renderer — no SARIF/JSON/
// GitHub-annotation formatters, LSP mode, or TUI (spec.md §1 out-of-scope
// list; SPEC_FULL.md §7).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set by GoReleaser at build time.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:     "actionaudit",
	Short:   "Static analysis for GitHub Actions workflows, composite actions, and Dependabot configs",
	Version: version,
	Long: `actionaudit finds security and correctness issues in GitHub Actions
workflows, composite actions, and Dependabot configuration: unpinned
third-party actions, script/template injection, spoofable bot-actor
checks, artifact-poisoning setups, and more.

Common tasks:
  actionaudit audit                    # Audit .github/workflows and .github/actions
  actionaudit audit --file action.yml  # Audit a single file
  actionaudit validate                 # Schema-validate without running audits`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetOut(os.Stderr)
	rootCmd.SetVersionTemplate("actionaudit version {{.Version}}\n")

	rootCmd.AddCommand(newAuditCommand())
	rootCmd.AddCommand(newValidateCommand())
	rootCmd.AddCommand(newVersionCommand())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if _, silent := err.(*silentError); !silent {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}
