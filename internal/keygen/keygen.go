// Package keygen derives deterministic, collision-safe catalog keys.
package keygen

import (
	"fmt"
	"hash/fnv"
	"regexp"
	"strings"
)

// dartReserved is the reserved-word list of the catalog consumer language;
// a derived key must never collide with one of these.
var dartReserved = map[string]struct{}{
	"abstract": {}, "as": {}, "assert": {}, "async": {}, "await": {},
	"break": {}, "case": {}, "catch": {}, "class": {}, "const": {},
	"continue": {}, "covariant": {}, "default": {}, "deferred": {},
	"do": {}, "dynamic": {}, "else": {}, "enum": {}, "export": {},
	"extends": {}, "extension": {}, "external": {}, "factory": {},
	"false": {}, "final": {}, "finally": {}, "for": {}, "function": {},
	"get": {}, "hide": {}, "if": {}, "implements": {}, "import": {},
	"in": {}, "interface": {}, "is": {}, "library": {}, "mixin": {},
	"new": {}, "null": {}, "on": {}, "operator": {}, "part": {},
	"rethrow": {}, "return": {}, "set": {}, "show": {}, "static": {},
	"super": {}, "switch": {}, "sync": {}, "this": {}, "throw": {},
	"true": {}, "try": {}, "typedef": {}, "var": {}, "void": {},
	"while": {}, "with": {}, "yield": {},
}

// stopwords are skipped when sampling words from the middle of a long
// string.
var stopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "of": {},
	"with": {}, "by": {},
}

var nonAlnum = regexp.MustCompile(`[^a-zA-Z0-9\s]`)

// Deriver turns string values into catalog keys.
type Deriver struct{}

// NewDeriver creates a key deriver.
func NewDeriver() *Deriver {
	return &Deriver{}
}

// Derive returns the key for value, unique against taken (key → value).
// Derivation is deterministic; a collision with a reserved word or with an
// existing key bound to a different value gets a numeric suffix. Deriving
// for a value a key is already bound to returns that same key.
func (d *Deriver) Derive(value string, taken map[string]string) string {
	base := baseKey(value)

	key := base
	for n := 2; ; n++ {
		bound, exists := taken[key]
		if !exists || bound == value {
			return key
		}
		key = fmt.Sprintf("%s_%d", base, n)
	}
}

// baseKey normalizes value into the undisambiguated key.
func baseKey(value string) string {
	cleaned := nonAlnum.ReplaceAllString(value, "")
	words := strings.Fields(strings.ToLower(cleaned))

	var key string
	switch {
	case len(words) == 0:
		key = "unknown_string"
	case len(words) <= 4:
		key = strings.Join(words, "_")
	case len(words) <= 8:
		key = strings.Join(shorten(words), "_")
	default:
		// Long strings get a fixed-width hash of the full original
		// value so that similar sentences cannot collide.
		key = strings.Join(shorten(words), "_") + "_" + hashSuffix(value)
	}

	if key[0] >= '0' && key[0] <= '9' {
		key = "key_" + key
	}
	if _, reserved := dartReserved[key]; reserved {
		key += "_text"
	}
	return key
}

// shorten keeps the first two words plus the first and last meaningful
// words of the remainder.
func shorten(words []string) []string {
	out := words[:2:2]
	rest := words[2:]

	first, last := "", ""
	for _, w := range rest {
		if _, stop := stopwords[w]; stop || len(w) <= 2 {
			continue
		}
		if first == "" {
			first = w
		}
		last = w
	}
	if first != "" {
		out = append(out, first)
	}
	if last != "" && last != first {
		out = append(out, last)
	}
	return out
}

// hashSuffix is a six-digit decimal digest of the original value.
func hashSuffix(value string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(value))
	return fmt.Sprintf("%06d", h.Sum32()%1_000_000)
}
