// Package catalog persists the key→string translation catalog in ARB form.
//
// An ARB file is a flat JSON object: an "@@locale" marker, "key": "value"
// string entries, and an "@key" metadata object per key. Serialization is
// byte-deterministic so that backup/restore can be verified byte for byte.
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Entry is one translatable string in the catalog.
type Entry struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
}

// Catalog is the in-memory form of the persisted catalog.
type Catalog struct {
	Locale  string
	entries map[string]Entry
}

// NewCatalog returns an empty catalog with the given locale marker.
func NewCatalog(locale string) *Catalog {
	return &Catalog{
		Locale:  locale,
		entries: make(map[string]Entry),
	}
}

// Add inserts or overwrites an entry.
func (c *Catalog) Add(key, value, description string) {
	c.entries[key] = Entry{Key: key, Value: value, Description: description}
}

// Has reports whether key exists.
func (c *Catalog) Has(key string) bool {
	_, ok := c.entries[key]
	return ok
}

// Len returns the number of entries, excluding metadata.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Keys returns key → value for every entry.
func (c *Catalog) Keys() map[string]string {
	out := make(map[string]string, len(c.entries))
	for k, e := range c.entries {
		out[k] = e.Value
	}
	return out
}

// ValueIndex returns value → key. When two keys hold the same value the
// lexically smallest key wins, deterministically.
func (c *Catalog) ValueIndex() map[string]string {
	out := make(map[string]string, len(c.entries))
	for _, key := range c.sortedKeys() {
		value := c.entries[key].Value
		if _, ok := out[value]; !ok {
			out[value] = key
		}
	}
	return out
}

func (c *Catalog) sortedKeys() []string {
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MarshalARB renders the catalog in deterministic ARB form: the locale
// marker first, then entries in key order, each followed by its metadata
// object.
func (c *Catalog) MarshalARB() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{\n")
	fmt.Fprintf(&buf, "  %s: %s", mustJSON("@@locale"), mustJSON(c.Locale))

	for _, key := range c.sortedKeys() {
		e := c.entries[key]
		buf.WriteString(",\n")
		fmt.Fprintf(&buf, "  %s: %s", mustJSON(key), mustJSON(e.Value))
		if e.Description != "" {
			buf.WriteString(",\n")
			fmt.Fprintf(&buf, "  %s: {\n    %s: %s\n  }",
				mustJSON("@"+key), mustJSON("description"), mustJSON(e.Description))
		}
	}
	buf.WriteString("\n}\n")
	return buf.Bytes(), nil
}

// UnmarshalARB parses ARB data into the catalog, replacing its contents.
func (c *Catalog) UnmarshalARB(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse arb: %w", err)
	}

	entries := make(map[string]Entry)
	locale := c.Locale
	for key, rawValue := range raw {
		switch {
		case key == "@@locale":
			if err := json.Unmarshal(rawValue, &locale); err != nil {
				return fmt.Errorf("parse locale: %w", err)
			}
		case len(key) > 0 && key[0] == '@':
			// Metadata, folded in below.
		default:
			var value string
			if err := json.Unmarshal(rawValue, &value); err != nil {
				return fmt.Errorf("parse entry %q: %w", key, err)
			}
			e := entries[key]
			e.Key, e.Value = key, value
			entries[key] = e
		}
	}

	// Second pass: attach descriptions to their entries.
	for key, rawValue := range raw {
		if len(key) < 2 || key[0] != '@' || key[1] == '@' {
			continue
		}
		target := key[1:]
		e, ok := entries[target]
		if !ok {
			continue
		}
		var meta struct {
			Description string `json:"description"`
		}
		if err := json.Unmarshal(rawValue, &meta); err != nil {
			continue
		}
		e.Description = meta.Description
		entries[target] = e
	}

	c.Locale = locale
	c.entries = entries
	return nil
}

func mustJSON(s string) []byte {
	b, err := json.Marshal(s)
	if err != nil {
		// json.Marshal of a string cannot fail.
		panic(err)
	}
	return b
}
