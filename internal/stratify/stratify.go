// Package stratify is the DOMAIN STACK component wired against
// github.com/google/mangle: it renders the lowered clause database as
// Mangle source text and runs mangle's own stratification/well-formedness
// analysis over it ahead of SLD resolution, so a non-stratifiable negation
// is reported as a diagnostic instead of surfacing as a confusing
// resolution-time UngroundedNegation error deep in a derivation.
//
// Grounded on internal/mangle/engine.go's rebuildProgramLocked
// (parse.Unit -> analysis.AnalyzeOneUnit pipeline shape) and
// internal/mangle/schema_validator.go's analogous text-based validation
// pass. The blank imports of mangle's builtin/packages subpackages mirror
// the teacher's own import block: mangle's analysis pass consults their
// registries even when nothing in this codebase calls them directly.
package stratify

import (
	"fmt"
	"strings"

	"github.com/google/mangle/analysis"
	_ "github.com/google/mangle/builtin"
	_ "github.com/google/mangle/packages"
	"github.com/google/mangle/parse"

	"modus/internal/logic"
)

// Diagnostic is one problem mangle's analysis found with the rendered
// program (most commonly a non-stratifiable negation cycle).
type Diagnostic struct {
	Message string
}

func (d Diagnostic) Error() string { return d.Message }

// Check renders clauses as Mangle source and runs mangle's own
// AnalyzeOneUnit pass over it, returning every diagnostic mangle reports.
// An empty result means mangle found nothing to flag; it does not by
// itself guarantee the program is well-formed by this engine's own rules
// (kindcheck and the resolver enforce those separately) — mangle is
// consulted here specifically for its stratification analysis.
func Check(clauses []logic.Clause) []Diagnostic {
	text := render(clauses)
	unit, err := parse.Unit(strings.NewReader(text))
	if err != nil {
		return []Diagnostic{{Message: fmt.Sprintf("mangle-export is not parseable as Mangle source: %v", err)}}
	}
	if _, err := analysis.AnalyzeOneUnit(unit, nil); err != nil {
		return []Diagnostic{{Message: fmt.Sprintf("mangle stratification analysis: %v", err)}}
	}
	return nil
}

// Render exposes the Mangle source text for a clause database, backing
// `modus mangle-export`.
func Render(clauses []logic.Clause) string {
	return render(clauses)
}
