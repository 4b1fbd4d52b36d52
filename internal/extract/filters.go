package extract

import "strings"

// technicalPatterns is the denylist of substrings that mark a literal as
// technical rather than user-facing. Matching is case-insensitive.
var technicalPatterns = []string{
	// API/network
	"http://", "https://", "api/", "endpoint", "token", "bearer", "authorization",

	// JSON/serialization
	"tomap", "frommap", "json", "serialization", "deserialization",

	// Dart/Flutter keywords, built-ins and framework types
	"dart:", "package:", "import", "export", "class", "enum", "typedef",
	"const", "final", "var", "string", "int", "bool", "double", "list", "map",
	"widget", "buildcontext", "materialapp", "scaffold", "container", "column",
	"row", "appbar", "listview",

	// Debug/ticket markers
	"debug", "mock", "stub", "fixture", "todo", "fixme", "hack", "xxx",

	// Paths and file extensions
	"assets/", "lib/", "test/", "android/", "ios/", ".dart", ".arb", ".json",
	".yaml", ".yml",

	// Generic identifier vocabulary
	"controller", "value", "data", "response", "request", "status", "code",
	"id", "type", "name", "email", "password", "phone", "address", "url",
	"uri", "path", "file", "folder", "directory",

	// Error/exception vocabulary
	"exception", "error", "failure", "timeout", "network", "server", "client",
	"unauthorized", "forbidden", "not_found", "bad_request", "internal_server_error",

	// Date/time format tokens
	"yyyy-mm-dd", "hh:mm:ss", "iso", "utc", "timestamp", "datetime",

	// Currency/number vocabulary
	"currency", "amount", "price", "cost", "total", "sum", "count", "number",
	"decimal", "integer", "float",

	// Style/layout vocabulary
	"color", "style", "theme", "font", "size", "width", "height", "padding",
	"margin", "border", "radius", "shadow", "gradient", "opacity", "alpha",
	"rgb", "hex",
}

// userFacingAllowlist overrides the denylist for common words that appear in
// legitimate prompts ("Enter your email").
var userFacingAllowlist = []string{
	"email", "password", "name", "phone", "address",
}

// IsTechnical reports whether a literal value reads as technical content.
// A denylist hit is forgiven when it comes from an allow-listed user-facing
// word present in the value.
func IsTechnical(value string) bool {
	lower := strings.ToLower(value)
	for _, pattern := range technicalPatterns {
		if !strings.Contains(lower, pattern) {
			continue
		}
		if allowlisted(lower, pattern) {
			continue
		}
		return true
	}
	return false
}

// allowlisted reports whether the denylist hit is explained by an
// allow-listed word, e.g. "address" matching inside "Enter your address".
func allowlisted(lower, pattern string) bool {
	for _, word := range userFacingAllowlist {
		if strings.Contains(word, pattern) && strings.Contains(lower, word) {
			return true
		}
	}
	return false
}
