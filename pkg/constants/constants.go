// Package constants provides shared constants for the capital-shares application.
package constants

// Share constants
const (
	// Denominator is the fixed denominator every ownership share is expressed over.
	Denominator = 1000

	// MaxChildren is the largest number of children a calculation accepts.
	MaxChildren = 30

	// MinParents and MaxParents bound the number of parents taking part.
	MinParents = 1
	MaxParents = 2
)

// Rounding mode names as they appear in configuration files and requests.
const (
	// RoundingHalfEven rounds ties to the nearest even integer.
	RoundingHalfEven = "half-even"

	// RoundingHalfAwayFromZero rounds ties away from zero.
	RoundingHalfAwayFromZero = "half-away-from-zero"

	// DefaultRounding is used when nothing else is configured.
	DefaultRounding = RoundingHalfEven
)

// Report language constants
const (
	LanguageEnglish = "en"
	LanguageRussian = "ru"

	DefaultLanguage = LanguageEnglish
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the structured JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix prefixes environment overrides of calculation settings.
	EnvPrefix = "CAPITAL_SHARES"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (64 KB)
	DefaultMaxBodySizeBytes int64 = 64 * 1024
)

// Validation constants
const (
	// PercentTolerance is the tolerance for percentage sums in reports.
	PercentTolerance = 0.01

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)
