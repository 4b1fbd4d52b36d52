// Package extract finds quoted string literals in source files.
//
// The extractor is line-oriented: it never parses the source language, it
// walks physical lines with a two-line look-behind (wrapped logging calls)
// and a bounded look-ahead (adjacent-literal concatenation blocks). Rules
// apply in order and the first match wins.
package extract

import (
	"os"
	"regexp"
	"strings"

	"github.com/MajorE-Garage/arbshift/internal/model"
)

// RawCandidate is one literal found at one source location, before
// deduplication and classification.
type RawCandidate struct {
	Value string `json:"value"`
	File  string `json:"file"`
	Line  int    `json:"line"`

	// Deferred is set when the occurrence already carries the manual
	// translation marker; it is re-emitted as manual review, never as a
	// fresh raw string.
	Deferred bool `json:"deferred,omitempty"`

	// Multiline is set for adjacent-literal concatenation blocks.
	Multiline bool `json:"multiline,omitempty"`

	// Concatenated is set when the literal sits next to a + operator or
	// its value contains interpolation syntax.
	Concatenated bool `json:"concatenated,omitempty"`

	// Escaped is set when the value contains backslash escapes. Such
	// literals cannot be matched verbatim by the rewriter, so they go to
	// manual review instead of being replaced.
	Escaped bool `json:"escaped,omitempty"`
}

// Extractor applies the ordered line rules to source files.
type Extractor struct {
	singleQuoted *regexp.Regexp
	doubleQuoted *regexp.Regexp
	rawString    *regexp.Regexp
	regexCall    *regexp.Regexp
	logCall      *regexp.Regexp
	concatAdj    *regexp.Regexp
	bareLiteral  *regexp.Regexp
}

// NewExtractor builds an extractor for Dart-style source.
func NewExtractor() *Extractor {
	return &Extractor{
		// Escape-aware: \' and \" stay inside the literal instead of
		// opening a bogus one at the escaped quote.
		singleQuoted: regexp.MustCompile(`'((?:[^'\\]|\\.)*)'`),
		doubleQuoted: regexp.MustCompile(`"((?:[^"\\]|\\.)*)"`),
		rawString:    regexp.MustCompile(`\br['"]`),
		regexCall:    regexp.MustCompile(`\bRegExp\s*\(`),
		logCall: regexp.MustCompile(`(?i)(\blog(ger)?\s*[.(]|\bdebugPrint\s*\(|\bprint\s*\(|\bconsole\.(log|warn|error|info)|\banalytics\b|\.logEvent\s*\(|\.track(Event)?\s*\(|crashlytics|sentry)`),
		concatAdj:    regexp.MustCompile(`['"]\s*\+|\+\s*['"]`),
		bareLiteral:  regexp.MustCompile(`^\s*(?:'[^'\\]*'|"[^"\\]*")\s*[;,]?\s*$`),
	}
}

// ExtractFile reads path and extracts candidates from it.
func (e *Extractor) ExtractFile(path string) ([]RawCandidate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return e.ExtractSource(path, data), nil
}

// ExtractSource extracts candidates from src, attributing them to path.
func (e *Extractor) ExtractSource(path string, src []byte) []RawCandidate {
	lines := strings.Split(string(src), "\n")

	var out []RawCandidate
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		prev1, prev2 := "", ""
		if i >= 1 {
			prev1 = lines[i-1]
		}
		if i >= 2 {
			prev2 = lines[i-2]
		}
		trimmed := strings.TrimSpace(line)

		// Rule 1: a line marked deferred (on itself or immediately
		// above) re-emits its literals as manual review. Re-running the
		// tool must not re-extract a previously deferred string as raw.
		if strings.Contains(line, model.DeferMarker) || strings.Contains(prev1, model.DeferMarker) {
			if isComment(trimmed) {
				continue
			}
			// An annotated concatenation block: the marker sits between
			// the assignment line and the first literal, so the whole
			// bare-literal run is re-consumed as one deferred value.
			// Otherwise its tail lines would look like fresh literals.
			if end := e.bareRunEnd(lines, i); end > i {
				value, interpolated := e.joinBlock(lines[i : end+1])
				out = append(out, RawCandidate{
					Value:        value,
					File:         path,
					Line:         i + 1,
					Deferred:     true,
					Multiline:    true,
					Concatenated: interpolated,
				})
				i = end
				continue
			}
			for _, value := range e.literals(line) {
				out = append(out, RawCandidate{
					Value:        value,
					File:         path,
					Line:         i + 1,
					Deferred:     true,
					Concatenated: e.concatAdj.MatchString(line) || containsInterpolation(value),
				})
			}
			continue
		}

		// Rule 2: an explicit ignore directive above the line skips it.
		if strings.Contains(prev1, model.IgnoreMarker) || strings.Contains(line, model.IgnoreMarker) {
			continue
		}

		// Rule 3: adjacent-literal concatenation block. The previous
		// non-blank line ends in an assignment/arrow/plus token and two
		// or more bare literal lines follow. The block is one logical
		// literal, recorded at its first line, and is never safe to
		// replace token by token.
		if end, ok := e.blockEnd(lines, i); ok {
			value, interpolated := e.joinBlock(lines[i : end+1])
			out = append(out, RawCandidate{
				Value:        value,
				File:         path,
				Line:         i + 1,
				Deferred:     true,
				Multiline:    true,
				Concatenated: interpolated,
			})
			i = end
			continue
		}

		// Rule 4: regex construction and raw strings hold patterns, not
		// user text.
		if e.regexCall.MatchString(line) || e.rawString.MatchString(line) {
			continue
		}

		// Rule 5: full-line comments.
		if isComment(trimmed) {
			continue
		}

		// Rule 6: logging and telemetry payloads are not user-facing.
		// The call may be wrapped, so look up to two lines back.
		if e.logCall.MatchString(line) || e.logCall.MatchString(prev1) || e.logCall.MatchString(prev2) {
			continue
		}

		// Rules 7-8: accept the literals on the line, minus technical
		// content.
		concat := e.concatAdj.MatchString(line)
		for _, value := range e.literals(line) {
			if IsTechnical(value) {
				continue
			}
			out = append(out, RawCandidate{
				Value:        value,
				File:         path,
				Line:         i + 1,
				Concatenated: concat || containsInterpolation(value),
				Escaped:      strings.Contains(value, `\`),
			})
		}
	}
	return out
}

// literals returns the contents of every single- and double-quoted literal
// on the line, in order of appearance.
func (e *Extractor) literals(line string) []string {
	var values []string
	for _, m := range e.singleQuoted.FindAllStringSubmatch(line, -1) {
		values = append(values, m[1])
	}
	for _, m := range e.doubleQuoted.FindAllStringSubmatch(line, -1) {
		values = append(values, m[1])
	}
	return values
}

// blockEnd reports whether a concatenation block starts at index i and
// returns the index of its last line.
func (e *Extractor) blockEnd(lines []string, i int) (int, bool) {
	prev := previousNonBlank(lines, i)
	if !endsWithAssignToken(prev) {
		return 0, false
	}
	end := e.bareRunEnd(lines, i)
	if end <= i {
		// A single continuation literal is handled by the normal
		// single-line rules.
		return 0, false
	}
	return end, true
}

// bareRunEnd returns the index of the last line in the run of consecutive
// bare-literal lines starting at i, or i-1 when line i is not bare.
func (e *Extractor) bareRunEnd(lines []string, i int) int {
	end := i
	for end < len(lines) && e.bareLiteral.MatchString(lines[end]) {
		end++
	}
	return end - 1
}

// joinBlock concatenates the literal segments of a block into one logical
// value and reports whether any segment interpolates a variable.
func (e *Extractor) joinBlock(blockLines []string) (string, bool) {
	var sb strings.Builder
	interpolated := false
	for _, line := range blockLines {
		for _, value := range e.literals(line) {
			sb.WriteString(value)
			if containsInterpolation(value) {
				interpolated = true
			}
		}
	}
	return sb.String(), interpolated
}

func previousNonBlank(lines []string, i int) string {
	for j := i - 1; j >= 0; j-- {
		if strings.TrimSpace(lines[j]) != "" {
			return lines[j]
		}
	}
	return ""
}

func endsWithAssignToken(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasSuffix(trimmed, "=") ||
		strings.HasSuffix(trimmed, "=>") ||
		strings.HasSuffix(trimmed, "+")
}

func isComment(trimmed string) bool {
	return strings.HasPrefix(trimmed, "//") ||
		strings.HasPrefix(trimmed, "/*") ||
		strings.HasPrefix(trimmed, "*")
}

func containsInterpolation(value string) bool {
	return strings.Contains(value, "$")
}
