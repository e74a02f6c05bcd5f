package rewrite

import (
	"fmt"

	"github.com/labs-lang/sliver/internal/ast"
	"github.com/labs-lang/sliver/internal/info"
)

// TranslateProperty eliminates quantifiers and externs from condition, then
// emits the modal-µ-calculus text a process-algebraic backend consumes
// verbatim (spec.md §4.4, "Contract"). The modality named by prop selects
// the formula scheme.
func TranslateProperty(inf info.Info, externs map[string]int, prop info.Property, condition ast.Node) (string, error) {
	eliminated, err := EliminateQuantifiers(condition, inf)
	if err != nil {
		return "", fmt.Errorf("eliminating quantifiers: %w", err)
	}
	substituted := ReplaceExterns(eliminated, externs)
	params := VarsToStrings(substituted)

	result := sprintPredicate(params, pprintMCL(substituted))

	switch prop.Modality {
	case info.Always:
		inv, err := sprintInvariant(params, inf, "Predicate", "")
		if err != nil {
			return "", err
		}
		result += inv
	case info.Eventually, info.Finally:
		fin, err := sprintFinally(params, inf)
		if err != nil {
			return "", err
		}
		result += fin
	case info.Fairly:
		reach, err := sprintReach(params, inf)
		if err != nil {
			return "", err
		}
		inv, err := sprintInvariant(params, inf, "Reach", "Predicate")
		if err != nil {
			return "", err
		}
		result += reach + inv
	case info.FairlyInf:
		reach, err := sprintReach(params, inf)
		if err != nil {
			return "", err
		}
		inv, err := sprintInvariant(params, inf, "Reach", "")
		if err != nil {
			return "", err
		}
		result += reach + inv
	default:
		return "", fmt.Errorf("unrecognized modality %v", prop.Modality)
	}
	return result, nil
}
