package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/MajorE-Garage/arbshift/internal/model"
)

const rule = "═══════════════════════════════════════════════════════════"

// Renderer writes the run report for humans and machines.
type Renderer struct {
	out io.Writer
}

// NewRenderer creates a renderer writing the console report to out.
func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

// RenderSummary prints the console report.
func (r *Renderer) RenderSummary(report *model.Report) {
	fmt.Fprintln(r.out, rule)
	if report.DryRun {
		fmt.Fprintln(r.out, "  arbshift scan report (dry run)")
	} else {
		fmt.Fprintln(r.out, "  arbshift report")
	}
	fmt.Fprintln(r.out, rule)
	fmt.Fprintln(r.out)
	fmt.Fprintf(r.out, "  Root:            %s\n", report.Root)
	fmt.Fprintf(r.out, "  Catalog:         %s\n", report.CatalogPath)
	fmt.Fprintf(r.out, "  Files scanned:   %d\n", report.FilesScanned)
	fmt.Fprintf(r.out, "  Unique strings:  %d\n", report.UniqueStrings)
	fmt.Fprintln(r.out)
	for _, cat := range model.Categories {
		fmt.Fprintf(r.out, "  %-15s %d\n", categoryLabel(cat)+":", report.Counts[cat])
	}
	fmt.Fprintln(r.out)

	if len(report.NewEntries) > 0 {
		if report.DryRun {
			fmt.Fprintln(r.out, "Catalog entries that would be added:")
		} else {
			fmt.Fprintln(r.out, "New catalog entries:")
		}
		for _, e := range report.NewEntries {
			fmt.Fprintf(r.out, "  • %s = %q\n", e.Key, e.Value)
		}
		fmt.Fprintln(r.out)
	}

	if len(report.Touched) > 0 {
		fmt.Fprintln(r.out, "Files touched:")
		for _, fm := range report.Touched {
			fmt.Fprintf(r.out, "  • %s (%d replacements, %d annotations)\n", fm.Path, fm.Replacements, fm.Annotations)
		}
		fmt.Fprintf(r.out, "  Total: %d replacements, %d annotations\n", report.Replacements, report.Annotations)
		fmt.Fprintln(r.out)
	}

	if len(report.Unresolved) > 0 {
		fmt.Fprintln(r.out, "⚠ Unresolved strings (no rule matched, needs attention):")
		for _, v := range report.Unresolved {
			fmt.Fprintf(r.out, "  ! %q\n", v)
		}
		fmt.Fprintln(r.out)
	}

	if report.Advice != nil && report.Advice.Enabled {
		fmt.Fprintf(r.out, "LLM review advice (%s/%s, advisory only):\n", report.Advice.Provider, report.Advice.Model)
		fmt.Fprintln(r.out, report.Advice.AdviceMD)
		for _, w := range report.Advice.Warnings {
			fmt.Fprintf(r.out, "  ⚠ %s\n", w)
		}
		fmt.Fprintln(r.out)
	}
}

// RenderJSON writes the machine-readable report. Records are included only
// when asked for, they dominate the payload on large trees.
func (r *Renderer) RenderJSON(report *model.Report, path string, includeRecords bool) error {
	out := *report
	if !includeRecords {
		out.Records = nil
	}
	data, err := json.MarshalIndent(&out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func categoryLabel(cat model.Category) string {
	switch cat {
	case model.CategoryCataloged:
		return "Cataloged"
	case model.CategoryEligible:
		return "Eligible"
	case model.CategoryManualReview:
		return "Manual review"
	case model.CategoryExempt:
		return "Exempt"
	case model.CategoryUnresolved:
		return "Unresolved"
	default:
		return string(cat)
	}
}
