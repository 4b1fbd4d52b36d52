package cli

import (
	"context"
	"strings"
	"time"

	"github.com/MajorE-Garage/arbshift/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	compilerCmd    string
	compileTimeout time.Duration
	skipCompile    bool
)

// applyCmd represents the apply command
var applyCmd = &cobra.Command{
	Use:   "apply [root]",
	Short: "Catalog new strings and rewrite the source tree",
	Long: `Apply runs the full pipeline: eligible strings are added to the catalog
inside a backup/restore transaction, the external catalog compiler runs, and
on success the source tree is rewritten (literals become catalog references,
deferred strings get a marker comment).

If the compiler fails, the catalog is restored byte-for-byte to its pre-run
state and the command exits non-zero. Source files rewritten before the
failure are kept: every rewrite points at a key whose value is unchanged, so
a re-run after fixing the compiler picks up exactly where this one stopped.

Example:
  arbshift apply
  arbshift apply lib --catalog lib/l10n/arbs/app_en.arb
  arbshift apply --compiler "flutter gen-l10n" --compile-timeout 3m`,
	Args: cobra.MaximumNArgs(1),
	RunE: runApply,
}

func init() {
	rootCmd.AddCommand(applyCmd)
	addPipelineFlags(applyCmd)

	applyCmd.Flags().StringVar(&compilerCmd, "compiler", "", "external catalog compiler command (default from config)")
	applyCmd.Flags().DurationVar(&compileTimeout, "compile-timeout", 0, "compiler timeout (default from config)")
	applyCmd.Flags().BoolVar(&skipCompile, "skip-compile", false, "do not invoke the external compiler")
}

func runApply(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if compilerCmd != "" {
		cfg.Catalog.Compiler = strings.Fields(compilerCmd)
	}
	if compileTimeout > 0 {
		cfg.Catalog.CompileTimeout = compileTimeout
	}
	if skipCompile {
		cfg.Catalog.Compiler = nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), scanTimeout)
	defer cancel()

	p, err := pipeline.NewPipeline(cfg, log)
	if err != nil {
		return err
	}

	report, err := p.Apply(ctx)
	if report != nil {
		// Partial reports still help diagnose a failed run.
		if renderErr := renderReport(report, cfg); renderErr != nil && err == nil {
			err = renderErr
		}
	}
	return err
}
