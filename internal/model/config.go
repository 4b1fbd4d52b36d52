package model

import "time"

// Config holds the full runtime configuration.
type Config struct {
	Scan    ScanConfig    `json:"scan" yaml:"scan" mapstructure:"scan"`
	Catalog CatalogConfig `json:"catalog" yaml:"catalog" mapstructure:"catalog"`
	Rewrite RewriteConfig `json:"rewrite" yaml:"rewrite" mapstructure:"rewrite"`
	Output  OutputConfig  `json:"output" yaml:"output" mapstructure:"output"`
	LLM     LLMConfig     `json:"llm" yaml:"llm" mapstructure:"llm"`
}

// ScanConfig controls file discovery and extraction.
type ScanConfig struct {
	Root string `json:"root" yaml:"root" mapstructure:"root"`

	// Exclude drops any file whose relative path contains one of these
	// substrings.
	Exclude []string `json:"exclude" yaml:"exclude" mapstructure:"exclude"`

	// ExcludeSuffixes drops generated files by filename suffix.
	ExcludeSuffixes []string `json:"exclude_suffixes" yaml:"exclude_suffixes" mapstructure:"exclude_suffixes"`

	// Suffix selects the source files to scan.
	Suffix string `json:"suffix" yaml:"suffix" mapstructure:"suffix"`

	Workers      int    `json:"workers" yaml:"workers" mapstructure:"workers"`
	CacheEnabled bool   `json:"cache" yaml:"cache" mapstructure:"cache"`
	CacheDir     string `json:"cache_dir" yaml:"cache_dir" mapstructure:"cache_dir"`
}

// CatalogConfig locates the persisted catalog and its compiler.
type CatalogConfig struct {
	Path   string `json:"path" yaml:"path" mapstructure:"path"`
	Locale string `json:"locale" yaml:"locale" mapstructure:"locale"`

	// Compiler is the external command invoked after a save, argv style.
	// Its only contract is exit status zero on success.
	Compiler       []string      `json:"compiler" yaml:"compiler" mapstructure:"compiler"`
	CompileTimeout time.Duration `json:"compile_timeout" yaml:"compile_timeout" mapstructure:"compile_timeout"`
}

// RewriteConfig controls how literals are rewritten.
type RewriteConfig struct {
	// Reference is the expression prefix for symbolic references;
	// a literal becomes <reference>.<key>.
	Reference string `json:"reference" yaml:"reference" mapstructure:"reference"`
}

// OutputConfig controls reporting.
type OutputConfig struct {
	Verbose  bool   `json:"verbose" yaml:"verbose" mapstructure:"verbose"`
	JSONPath string `json:"json" yaml:"json" mapstructure:"json"`

	// IncludeRecords embeds every string record in the JSON report.
	IncludeRecords bool `json:"include_records" yaml:"include_records" mapstructure:"include_records"`
}

// LLMConfig configures the optional advisory reviewer.
type LLMConfig struct {
	Provider string `json:"provider" yaml:"provider" mapstructure:"provider"`
	Model    string `json:"model" yaml:"model" mapstructure:"model"`
	APIKey   string `json:"-" yaml:"-" mapstructure:"-"`
	BaseURL  string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	Timeout   int `json:"timeout" yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int `json:"max_tokens" yaml:"max_tokens" mapstructure:"max_tokens"`

	// RequestsPerMinute bounds calls to the provider API.
	RequestsPerMinute float64 `json:"requests_per_minute" yaml:"requests_per_minute" mapstructure:"requests_per_minute"`
}

// DefaultConfig returns the built-in defaults for a Flutter project layout.
func DefaultConfig() *Config {
	return &Config{
		Scan: ScanConfig{
			Root:   "lib",
			Suffix: ".dart",
			Exclude: []string{
				"/l10n/",
				"/.dart_tool/",
				"/build/",
				"/generated/",
			},
			ExcludeSuffixes: []string{
				".g.dart",
				".freezed.dart",
				".gr.dart",
				".mocks.dart",
			},
			Workers:      4,
			CacheEnabled: true,
			CacheDir:     ".arbshift-cache",
		},
		Catalog: CatalogConfig{
			Path:           "lib/l10n/arbs/app_en.arb",
			Locale:         "en",
			Compiler:       []string{"flutter", "gen-l10n"},
			CompileTimeout: 2 * time.Minute,
		},
		Rewrite: RewriteConfig{
			Reference: "translations",
		},
		Output: OutputConfig{},
		LLM: LLMConfig{
			Timeout:           30,
			MaxTokens:         1000,
			RequestsPerMinute: 20,
		},
	}
}
