// Package contract validates CLI-boundary inputs: query types and known
// output tiers, so that an invalid value produces a clean input error
// instead of propagating into the map loader.
package contract

// QueryTypes are the pre-computed answer lookups backed by quick-queries,
// plus the map-backed extended types that load a tier-3/4 artifact lazily.
var QueryTypes = []string{
	"entry-points",
	"framework",
	"tests",
	"largest",
	"recent",
	"structure",
	"languages",
	"backend-layers",
	"modules",
	"components",
	"database",
	"dependencies",
	"issues",
	"relationships",
}

// ValidationResult represents the result of a validation check.
type ValidationResult struct {
	OK      bool
	Message string
}

// ValidateQueryType checks that queryType is one of the known types.
func ValidateQueryType(queryType string) *ValidationResult {
	for _, t := range QueryTypes {
		if t == queryType {
			return &ValidationResult{OK: true}
		}
	}
	return &ValidationResult{
		OK:      false,
		Message: "unknown query type: " + queryType,
	}
}

// ValidateTier checks that tier is in the valid 1..4 range.
func ValidateTier(tier int) *ValidationResult {
	if tier < 1 || tier > 4 {
		return &ValidationResult{OK: false, Message: "tier must be between 1 and 4"}
	}
	return &ValidationResult{OK: true}
}
