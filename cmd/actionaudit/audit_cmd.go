package main

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hardenedci/actionaudit/pkg/audit"
	"github.com/hardenedci/actionaudit/pkg/audit/rules"
	"github.com/hardenedci/actionaudit/pkg/finding"
	"github.com/hardenedci/actionaudit/pkg/logger"
	"github.com/hardenedci/actionaudit/pkg/oracle"
	"github.com/hardenedci/actionaudit/pkg/oracle/ghoracle"
	"github.com/hardenedci/actionaudit/pkg/oracle/ocioracle"
	"github.com/hardenedci/actionaudit/pkg/registry"
)

var log = logger.New("actionaudit")

// errFindingsPresent causes a non-zero exit status without cobra printing
// a redundant "error: ..." line — the findings table was already
// rendered to the command's output (stderr, as set on the root command).
var errFindingsPresent = &silentError{}

type silentError struct{}

func (*silentError) Error() string { return "" }

func newAuditCommand() *cobra.Command {
	var (
		filePath string
		dir      string
		offline  bool
		strict   bool
		persona  string
		cacheDir string
		token    string
	)

	cmd := &cobra.Command{
		Use:   "audit [owner/repo[@ref]]",
		Short: "Audit workflows, composite actions, and Dependabot config for security issues",
		Long: `Audit collects every workflow under .github/workflows, every composite
action under .github/actions, and .github/dependabot.yml (or a single
--file, or a remote owner/repo[@ref]), then runs the full set of
representative audits against them, printing findings as a table.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parsePersona(persona)
			if err != nil {
				return err
			}

			var gh oracle.GitHubOracle
			var oci oracle.OCIOracle
			if !offline {
				if token == "" {
					token = os.Getenv("GH_TOKEN")
				}
				if token == "" {
					token = os.Getenv("GITHUB_TOKEN")
				}
				ghc, gherr := ghoracle.New(token, cacheDir)
				if gherr != nil {
					log.Warnf("could not build GitHub oracle, oracle-backed audits will skip: %v", gherr)
				} else {
					gh = ghc
				}
				oci = ocioracle.New()
			}

			reg := registry.New(strict)
			switch {
			case filePath != "":
				if err := reg.CollectFile(readFileAsString, filePath); err != nil {
					return err
				}
			case len(args) == 1:
				if gh == nil {
					return fmt.Errorf("auditing a remote repository requires a GitHub token (set GH_TOKEN/GITHUB_TOKEN, pass --token, or remove --offline)")
				}
				if err := reg.CollectRemote(cmd.Context(), gh, args[0]); err != nil {
					return err
				}
			default:
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
					return err
				}
			}

			for _, issue := range reg.Issues() {
				log.Warnf("%s: %s: %v", issue.Key, issue.Kind, issue.Err)
			}

			state := &audit.State{
				Offline:  offline,
				CacheDir: cacheDir,
				GitHub:   gh,
				OCI:      oci,
				Policy:   audit.DefaultPinningPolicy(),
			}

			runner, loadIssues := audit.NewRunner(state, rules.Registry)
			for _, li := range loadIssues {
				if li.Skip {
					log.Printf("audit %s skipped: %v", li.Name, li.Err)
				} else {
					log.Warnf("audit %s failed to load: %v", li.Name, li.Err)
				}
			}

			var inputs []audit.Input
			for _, e := range reg.Entries() {
				inputs = append(inputs, audit.Input{
					Key:        e.Key,
					Workflow:   e.Workflow,
					Action:     e.Action,
					Dependabot: e.Dependabot,
				})
			}

			findings, err := runner.Run(cmd.Context(), inputs)
			if err != nil {
				return err
			}
			findings = finding.FilterByPersona(findings, p)

			renderFindings(cmd.OutOrStdout(), findings)
			if len(findings) > 0 {
				return errFindingsPresent
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&filePath, "file", "", "Audit a single explicit file (action.yml, a workflow, or dependabot.yml)")
	cmd.Flags().StringVar(&dir, "dir", "", "Repository root to scan (default: current directory)")
	cmd.Flags().BoolVar(&offline, "offline", false, "Skip every oracle-backed audit (impostor-commit, known-vulnerable-actions)")
	cmd.Flags().BoolVar(&strict, "strict", false, "Treat schema and parse failures as fatal instead of skipping the input")
	cmd.Flags().StringVar(&persona, "persona", "regular", "Finding verbosity: regular, auditor, or pedantic")
	cmd.Flags().StringVar(&cacheDir, "cache-dir", "", "Directory for the oracle's on-disk response cache")
	cmd.Flags().StringVar(&token, "token", "", "GitHub token for oracle-backed audits and remote input collection (default: GH_TOKEN/GITHUB_TOKEN)")

	return cmd
}

func parsePersona(s string) (finding.Persona, error) {
	switch strings.ToLower(s) {
	case "regular", "":
		return finding.PersonaRegular, nil
	case "auditor":
		return finding.PersonaAuditor, nil
	case "pedantic":
		return finding.PersonaPedantic, nil
	default:
		return 0, fmt.Errorf("invalid --persona %q: must be regular, auditor, or pedantic", s)
	}
}

func readFileAsString(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func renderFindings(out io.Writer, findings []finding.Finding) {
	if len(findings) == 0 {
		fmt.Fprintln(out, "no findings")
		return
	}
	w := tabwriter.NewWriter(out, 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, "SEVERITY\tCONFIDENCE\tRULE\tLOCATION\tMESSAGE")
	for _, f := range findings {
		loc, _ := f.Primary()
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", f.Severity, f.Confidence, f.Ident, locationString(loc), loc.Annotation)
	}
	_ = w.Flush()
}

func locationString(loc finding.Location) string {
	if loc.InputKey == "" {
		return loc.Route.String()
	}
	return loc.InputKey + ":" + loc.Route.String()
}
