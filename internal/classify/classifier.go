// Package classify assigns each unique extracted string to a category.
//
// The rule set is an ordered table of predicates evaluated short-circuit:
// rules can be added or reordered without touching control flow.
package classify

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/MajorE-Garage/arbshift/internal/model"
)

// Rule is one predicate→category pair.
type Rule struct {
	Name     string
	Category model.Category
	Match    func(rec *model.StringRecord) bool
}

// Classifier applies the ordered rule set to string records.
type Classifier struct {
	rules []Rule

	// existing maps catalog value → catalog key.
	existing map[string]string
}

var (
	snakeCase  = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
	lowerCamel = regexp.MustCompile(`^[a-z][a-zA-Z0-9]*$`)
	hexColor   = regexp.MustCompile(`^(#|0x|0X)[0-9a-fA-F]{3,8}$`)
	allCaps    = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)
	integer    = regexp.MustCompile(`^-?[0-9]+$`)
	fileName   = regexp.MustCompile(`^[\w./\-]+\.(dart|arb|json|yaml|yml|png|jpg|jpeg|gif|webp|svg|ttf|otf|md|txt|pdf)$`)
	urlScheme  = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.\-]*://`)
	emailShape = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	ipv4Shape  = regexp.MustCompile(`^\d{1,3}(\.\d{1,3}){3}$`)
	isoDate    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	clockTime  = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}$`)
)

// New creates a classifier against the given catalog value→key index.
func New(existing map[string]string) *Classifier {
	c := &Classifier{existing: existing}
	c.rules = []Rule{
		{
			Name:     "cataloged",
			Category: model.CategoryCataloged,
			Match: func(rec *model.StringRecord) bool {
				_, ok := c.existing[rec.Value]
				return ok
			},
		},
		{
			Name:     "too-short",
			Category: model.CategoryExempt,
			Match: func(rec *model.StringRecord) bool {
				return len([]rune(rec.Value)) <= 1
			},
		},
		{
			Name:     "no-letters",
			Category: model.CategoryExempt,
			Match: func(rec *model.StringRecord) bool {
				return noLetters(rec.Value)
			},
		},
		{
			Name:     "identifier-shape",
			Category: model.CategoryExempt,
			Match: func(rec *model.StringRecord) bool {
				return snakeCase.MatchString(rec.Value) || lowerCamel.MatchString(rec.Value)
			},
		},
		{
			Name:     "hex-color",
			Category: model.CategoryExempt,
			Match: func(rec *model.StringRecord) bool {
				return hexColor.MatchString(rec.Value)
			},
		},
		{
			Name:     "machine-shape",
			Category: model.CategoryExempt,
			Match: func(rec *model.StringRecord) bool {
				v := rec.Value
				return allCaps.MatchString(v) ||
					integer.MatchString(v) ||
					fileName.MatchString(v) ||
					urlScheme.MatchString(v) ||
					emailShape.MatchString(v) ||
					ipv4Shape.MatchString(v) ||
					isoDate.MatchString(v) ||
					clockTime.MatchString(v)
			},
		},
		{
			Name:     "concatenation",
			Category: model.CategoryManualReview,
			Match: func(rec *model.StringRecord) bool {
				return rec.Concatenated || strings.Contains(rec.Value, "$")
			},
		},
		{
			// Catch-all: plain prose is safe to catalog and replace.
			Name:     "eligible",
			Category: model.CategoryEligible,
			Match:    func(*model.StringRecord) bool { return true },
		},
	}
	return c
}

// Classify assigns a category to every record that the extractor did not
// already route. Each record ends with exactly one category; a record no
// rule matches becomes unresolved rather than being dropped.
func (c *Classifier) Classify(records []*model.StringRecord) {
	for _, rec := range records {
		if rec.Category != "" {
			continue
		}
		c.classifyOne(rec)
	}
}

func (c *Classifier) classifyOne(rec *model.StringRecord) {
	for _, rule := range c.rules {
		if rule.Match(rec) {
			rec.Category = rule.Category
			rec.Heuristic = "rule:" + rule.Name
			if rule.Category == model.CategoryCataloged {
				rec.Key = c.existing[rec.Value]
			}
			return
		}
	}
	rec.Category = model.CategoryUnresolved
	rec.Heuristic = "rule:none"
}

// noLetters reports whether the value is digits, punctuation and whitespace
// only.
func noLetters(value string) bool {
	for _, r := range value {
		if unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
