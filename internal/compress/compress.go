package compress

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// Options tunes level selection. A zero Options picks the level
// automatically from document size, per spec.md §4.4's policy.
type Options struct {
	ForceAbbreviation bool
	ForceDeduplication bool
}

// Metadata is the envelope's metadata block, matching spec.md §6's
// compressed-artifact schema exactly.
type Metadata struct {
	Version           string  `json:"version"`
	Generated         string  `json:"generated"`
	CompressionLevel  int     `json:"compressionLevel"`
	Method            string  `json:"method"`
	OriginalSize      int     `json:"originalSize"`
	CompressedSize    int     `json:"compressedSize"`
	CompressionRatio  float64 `json:"compressionRatio"`
}

// Envelope is the on-disk shape of every map artifact.
type Envelope struct {
	Compressed bool                       `json:"compressed"`
	Data       json.RawMessage            `json:"data"`
	References map[string][]string        `json:"references,omitempty"`
	Metadata   Metadata                   `json:"metadata"`
}

// selectLevel applies spec.md §4.4's size-driven policy.
func selectLevel(minifiedSize int, opts Options) Level {
	if opts.ForceDeduplication {
		return LevelDedupe
	}
	if opts.ForceAbbreviation {
		return LevelAbbrev
	}
	switch {
	case minifiedSize < 5*1024:
		return LevelMinify
	case minifiedSize < 20*1024:
		return LevelAbbrev
	default:
		return LevelDedupe
	}
}

func methodForLevel(l Level) string {
	switch l {
	case LevelDedupe:
		return MethodValueDeduplication
	case LevelAbbrev:
		return MethodKeyAbbreviation
	default:
		return MethodMinification
	}
}

// Compress produces the on-disk envelope for v. The level is chosen
// automatically unless opts forces one. now supplies the "generated"
// timestamp (injected so callers, not this package, own wall-clock time).
func Compress(v any, schema *Schema, opts Options, now time.Time) (*Envelope, error) {
	pretty, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("compress: marshal: %w", err)
	}
	minified, err := minify(v)
	if err != nil {
		return nil, err
	}

	level := selectLevel(len(minified), opts)
	if schema == nil {
		// Schema-category degrade: no schema means level 1 regardless of
		// what the size policy picked, per spec.md §7's Schema error kind.
		level = LevelMinify
	}

	var body any = v
	refs := map[string][]string{}

	if level >= LevelAbbrev {
		// v may be a concrete struct; round-trip through the generic JSON
		// representation so key/value rewriting can walk plain
		// map[string]any / []any regardless of the caller's Go type.
		var generic any
		if err := json.Unmarshal(minified, &generic); err != nil {
			return nil, fmt.Errorf("compress: normalize: %w", err)
		}
		body = abbreviateKeys(generic, schema)
	}
	if level >= LevelDedupe {
		body = deduplicateValues(body, schema, refs)
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("compress: marshal compressed body: %w", err)
	}

	originalSize := len(pretty)
	compressedSize := len(data)
	ratio := 0.0
	if originalSize > 0 {
		ratio = float64(originalSize-compressedSize) / float64(originalSize)
	}

	env := &Envelope{
		Compressed: true,
		Data:       data,
		Metadata: Metadata{
			Version:          "1.0",
			Generated:        now.UTC().Format(time.RFC3339),
			CompressionLevel: int(level),
			Method:           methodForLevel(level),
			OriginalSize:     originalSize,
			CompressedSize:   compressedSize,
			CompressionRatio: ratio,
		},
	}
	if level >= LevelDedupe && len(refs) > 0 {
		env.References = refs
	}
	return env, nil
}

func minify(v any) ([]byte, error) {
	return json.Marshal(v)
}

// abbreviateKeys recursively rewrites object keys present in the schema's
// mapping, leaving unknown keys and all non-object values alone.
func abbreviateKeys(v any, schema *Schema) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			newKey := k
			if abbrev, ok := schema.KeyMappings.Mappings[k]; ok {
				newKey = abbrev
			}
			out[newKey] = abbreviateKeys(inner, schema)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = abbreviateKeys(inner, schema)
		}
		return out
	default:
		return val
	}
}

// deduplicateValues walks the (already key-abbreviated) document, counts
// string-leaf occurrences keyed by enclosing abbreviated key, and for any
// key mapped to a reference category whose value occurs >= dedupeThreshold
// times, promotes it into refs and replaces the leaf with a "@category:idx"
// token. The category->index assignment is stable: first-seen order.
func deduplicateValues(v any, schema *Schema, refs map[string][]string) any {
	counts := map[string]map[string]int{}
	countLeaves(v, "", counts)

	// category -> value -> index, built lazily as values are promoted.
	index := map[string]map[string]int{}

	return rewriteLeaves(v, "", counts, index, refs)
}

func countLeaves(v any, parentKey string, counts map[string]map[string]int) {
	switch val := v.(type) {
	case map[string]any:
		for k, inner := range val {
			countLeaves(inner, k, counts)
		}
	case []any:
		for _, inner := range val {
			countLeaves(inner, parentKey, counts)
		}
	case string:
		cat, ok := keyCategory[parentKey]
		if !ok {
			return
		}
		if counts[cat] == nil {
			counts[cat] = map[string]int{}
		}
		counts[cat][val]++
	}
}

func rewriteLeaves(v any, parentKey string, counts map[string]map[string]int, index map[string]map[string]int, refs map[string][]string) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			out[k] = rewriteLeaves(inner, k, counts, index, refs)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = rewriteLeaves(inner, parentKey, counts, index, refs)
		}
		return out
	case string:
		cat, ok := keyCategory[parentKey]
		if !ok {
			return val
		}
		if counts[cat][val] < dedupeThreshold {
			return val
		}
		if index[cat] == nil {
			index[cat] = map[string]int{}
		}
		idx, seen := index[cat][val]
		if !seen {
			idx = len(refs[cat])
			refs[cat] = append(refs[cat], val)
			index[cat][val] = idx
		}
		return fmt.Sprintf("@%s:%d", cat, idx)
	default:
		return val
	}
}

// Decompress reverses Compress, returning a plain JSON-compatible value
// (map[string]any / []any / primitives). Callers re-marshal into a typed
// struct via json.Marshal+Unmarshal if needed.
func Decompress(env *Envelope, schema *Schema) (any, error) {
	var body any
	if err := json.Unmarshal(env.Data, &body); err != nil {
		return nil, fmt.Errorf("decompress: unmarshal data: %w", err)
	}

	if env.Metadata.CompressionLevel >= int(LevelDedupe) && len(env.References) > 0 {
		body = resolveReferences(body, "", env.References)
	}
	if env.Metadata.CompressionLevel >= int(LevelAbbrev) && schema != nil {
		body = expandKeys(body, schema)
	}
	return body, nil
}

var refToken = func(s string) (category string, idx int, ok bool) {
	if len(s) < 3 || s[0] != '@' {
		return "", 0, false
	}
	i := lastIndexByte(s, ':')
	if i < 0 {
		return "", 0, false
	}
	cat := s[1:i]
	n := 0
	for _, c := range s[i+1:] {
		if c < '0' || c > '9' {
			return "", 0, false
		}
		n = n*10 + int(c-'0')
	}
	return cat, n, true
}

func lastIndexByte(s string, b byte) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == b {
			return i
		}
	}
	return -1
}

func resolveReferences(v any, _ string, refs map[string][]string) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			out[k] = resolveReferences(inner, k, refs)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = resolveReferences(inner, "", refs)
		}
		return out
	case string:
		cat, idx, ok := refToken(val)
		if !ok {
			return val
		}
		table, exists := refs[cat]
		if !exists || idx < 0 || idx >= len(table) {
			return val
		}
		return table[idx]
	default:
		return val
	}
}

func expandKeys(v any, schema *Schema) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			newKey := k
			if long, ok := schema.abbrevToLong[k]; ok {
				newKey = long
			}
			out[newKey] = expandKeys(inner, schema)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = expandKeys(inner, schema)
		}
		return out
	default:
		return val
	}
}

// SortedKeys is a small helper used by callers that need deterministic
// iteration over a map[string]any (e.g. assembling artifact index files).
func SortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
