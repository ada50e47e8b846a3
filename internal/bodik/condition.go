// condition.go validates the POST search filter grammar.
//
// The advanced search body maps field names to either a scalar
// (equality) or an operator object such as {"gte": 1000, "lte": 2000},
// and supports boolean combinators {"and": [...]} / {"or": [...]}.
// The upstream grammar is only partially documented, so this is an
// extensible tagged structure: combinators are checked strictly because
// a malformed one silently changes query semantics, while per-field
// operator objects pass through verbatim, unknown operators included.

package bodik

import "fmt"

// Comparison operators known to be accepted by the BODIK API.
const (
	OpEq   = "eq"
	OpGt   = "gt"
	OpGte  = "gte"
	OpLt   = "lt"
	OpLte  = "lte"
	OpLike = "like"
)

// Combinator keys for boolean nesting.
const (
	CombAnd = "and"
	CombOr  = "or"
)

// NormalizeConditions validates a decoded filter body and returns it
// ready for serialization. A nil input yields an empty body (match
// everything), mirroring the upstream behaviour of an empty POST.
func NormalizeConditions(raw map[string]any) (map[string]any, error) {
	if raw == nil {
		return map[string]any{}, nil
	}
	if err := checkConditions(raw, 0); err != nil {
		return nil, err
	}
	return raw, nil
}

// maxConditionDepth bounds combinator nesting so a hostile input cannot
// recurse unboundedly.
const maxConditionDepth = 16

func checkConditions(node map[string]any, depth int) error {
	if depth > maxConditionDepth {
		return fmt.Errorf("%w: conditions nested deeper than %d levels", ErrValidation, maxConditionDepth)
	}
	for key, val := range node {
		if key == "" {
			return fmt.Errorf("%w: condition field name must not be empty", ErrValidation)
		}
		if key != CombAnd && key != CombOr {
			// Field condition: scalar or operator object, passed through.
			continue
		}
		branches, ok := val.([]any)
		if !ok {
			return fmt.Errorf("%w: %q must be an array of condition objects", ErrValidation, key)
		}
		if len(branches) == 0 {
			return fmt.Errorf("%w: %q must not be empty", ErrValidation, key)
		}
		for _, branch := range branches {
			sub, ok := branch.(map[string]any)
			if !ok {
				return fmt.Errorf("%w: %q entries must be condition objects", ErrValidation, key)
			}
			if err := checkConditions(sub, depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}
