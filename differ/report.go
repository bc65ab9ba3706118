package differ

import (
	"fmt"
	"io"
	"strings"
)

// Report aggregates the comparison of every discovered building block.
type Report struct {
	// SourcesDir is the tree that was compared.
	SourcesDir string
	// Total is the number of discovered blocks.
	Total int
	// Checked is the number of blocks with both representations present.
	Checked int
	// Passed is the number of consistent blocks.
	Passed int
	// Differing is the number of blocks with drift or parse errors.
	Differing int
	// Skipped is the number of blocks missing a representation.
	Skipped int
	// Results holds the per-block outcomes in discovery order.
	Results []BlockResult
}

// HasDifferences reports whether any block drifted or failed to parse.
// Drift alone never fails a build; callers decide what to do with it.
func (r *Report) HasDifferences() bool {
	return r.Differing > 0
}

// Render writes the human-readable consistency report.
func (r *Report) Render(w io.Writer) {
	rule := strings.Repeat("=", 70)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "Building Block Schema Consistency Report")
	fmt.Fprintln(w, "  schema.yaml vs companion JSON schema")
	fmt.Fprintf(w, "  Sources: %s\n", r.SourcesDir)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "\nTotal blocks: %d | Checked: %d | Passed: %d | Differences: %d | Skipped: %d\n\n",
		r.Total, r.Checked, r.Passed, r.Differing, r.Skipped)

	var consistent, differing []BlockResult
	for _, result := range r.Results {
		switch result.Status {
		case StatusOK:
			consistent = append(consistent, result)
		case StatusDiff, StatusError:
			differing = append(differing, result)
		}
	}

	if len(consistent) > 0 {
		fmt.Fprintf(w, "--- CONSISTENT (%d) ---\n", len(consistent))
		for _, result := range consistent {
			fmt.Fprintf(w, "  OK  %s\n", result.Name)
		}
		fmt.Fprintln(w)
	}

	if len(differing) > 0 {
		fmt.Fprintf(w, "--- DIFFERENCES (%d) ---\n", len(differing))
		for _, result := range differing {
			fmt.Fprintf(w, "\n  %s  %s\n", result.Status, result.Name)
			for _, finding := range result.Findings {
				fmt.Fprintf(w, "    %s\n", finding)
			}
		}
		fmt.Fprintln(w)
	}

	if r.HasDifferences() {
		fmt.Fprintf(w, "\n%d building block(s) have inconsistencies.\n", r.Differing)
	} else {
		fmt.Fprintln(w, "\nAll checked building blocks are consistent.")
	}
}
