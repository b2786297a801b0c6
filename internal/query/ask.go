package query

import "strings"

// askRule is one row of the ordered keyword table SPEC_FULL.md §4.6
// describes for natural-language intent routing: first matching keyword
// wins, in table order.
type askRule struct {
	keywords  []string
	queryType string
}

var askRules = []askRule{
	{[]string{"entry", "start"}, "entry-points"},
	{[]string{"test"}, "tests"},
	{[]string{"big", "large"}, "largest"},
	{[]string{"recent", "new", "latest"}, "recent"},
	{[]string{"circular", "cycle", "broken"}, "issues"},
	{[]string{"depend", "import"}, "dependencies"},
	{[]string{"framework", "stack"}, "framework"},
	{[]string{"language"}, "languages"},
	{[]string{"module", "component"}, "modules"},
	{[]string{"database", "schema", "table"}, "database"},
}

// defaultAskType is returned when no keyword matches.
const defaultAskType = "structure"

// RouteIntent matches a free-text question against askRules and returns
// the query type to forward to Router.Query, per SPEC_FULL.md §4.6's
// ask (intent routing).
func RouteIntent(question string) string {
	lower := strings.ToLower(question)
	for _, rule := range askRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.queryType
			}
		}
	}
	return defaultAskType
}

// looksLikeSymbol reports whether question contains an identifier-shaped
// token (no spaces, mixed case or underscores/dots typical of a function
// or file name) that didn't match any keyword — SPEC_FULL.md §4.6's signal
// to fall through to Search instead of the structural query router.
func looksLikeSymbol(question string) bool {
	for _, tok := range strings.Fields(question) {
		tok = strings.Trim(tok, ".,?!:;")
		if len(tok) < 3 {
			continue
		}
		hasUpper, hasLower, hasSpecial := false, false, false
		for _, r := range tok {
			switch {
			case r >= 'A' && r <= 'Z':
				hasUpper = true
			case r >= 'a' && r <= 'z':
				hasLower = true
			case r == '_' || r == '.':
				hasSpecial = true
			}
		}
		if (hasUpper && hasLower) || hasSpecial {
			return true
		}
	}
	return false
}

// Ask answers a free-text question: it tries keyword-based intent
// routing first, falls back to Search when the question looks like a
// symbol lookup with no keyword match, and otherwise routes to the
// default "structure" type.
func (r *Router) Ask(question string) (any, error) {
	queryType := RouteIntent(question)
	if queryType == defaultAskType && looksLikeSymbol(question) {
		return r.Search(question, "")
	}
	return r.Query(queryType)
}
