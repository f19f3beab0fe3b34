// Package config defines the data structures related to configuration and
// includes functions for loading and converting a share calculation.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/capital-shares/pkg/constants"
	"github.com/iwvelando/capital-shares/pkg/report"
	"github.com/iwvelando/capital-shares/pkg/shares"
	"github.com/iwvelando/capital-shares/pkg/validation"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Configuration holds one share calculation plus how to run and print it.
type Configuration struct {
	Apartment   Apartment         `mapstructure:"apartment" yaml:"apartment" json:"apartment"`
	Parents     Parents           `mapstructure:"parents" yaml:"parents" json:"parents"`
	Children    Children          `mapstructure:"children" yaml:"children" json:"children"`
	Calculation CalculationConfig `mapstructure:"calculation" yaml:"calculation,omitempty" json:"calculation"`
	Report      ReportConfig      `mapstructure:"report" yaml:"report,omitempty" json:"report"`
	Logging     LoggingConfig     `mapstructure:"logging" yaml:"logging,omitempty" json:"logging"`
	Output      OutputConfig      `mapstructure:"output" yaml:"output,omitempty" json:"output"`
}

// Apartment holds the purchase price and the maternal capital applied to it.
// Amounts are kept as strings so they reach the allocator without passing
// through float64.
type Apartment struct {
	Cost    string `mapstructure:"cost" yaml:"cost" json:"cost" validate:"required,decimal"`
	Subsidy string `mapstructure:"subsidy" yaml:"subsidy" json:"subsidy" validate:"decimal"`
}

// Parents names the parents and whether the second one takes part.
type Parents struct {
	First              string `mapstructure:"first" yaml:"first,omitempty" json:"first"`
	Second             string `mapstructure:"second" yaml:"second,omitempty" json:"second"`
	SecondParticipates bool   `mapstructure:"secondParticipates" yaml:"secondParticipates" json:"secondParticipates"`
}

// Children holds the number of children and their names, in order.
type Children struct {
	Count int      `mapstructure:"count" yaml:"count" json:"count" validate:"gte=0,lte=30"`
	Names []string `mapstructure:"names" yaml:"names,omitempty" json:"names"`
}

// CalculationConfig holds allocator options.
type CalculationConfig struct {
	Rounding string `mapstructure:"rounding" yaml:"rounding,omitempty" json:"rounding" validate:"omitempty,oneof=half-even half-away-from-zero"`
}

// ReportConfig holds report options.
type ReportConfig struct {
	Language string `mapstructure:"language" yaml:"language,omitempty" json:"language" validate:"omitempty,oneof=en ru"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level,omitempty" json:"level" validate:"omitempty,oneof=debug info warn warning error"`
	Format     string `mapstructure:"format" yaml:"format,omitempty" json:"format" validate:"omitempty,oneof=json console"`
	OutputFile string `mapstructure:"outputFile" yaml:"outputFile,omitempty" json:"outputFile"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format,omitempty" json:"format" validate:"omitempty,oneof=pretty csv json"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. Values may be overridden from the environment, e.g.
// CAPITAL_SHARES_APARTMENT_COST.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}

	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("apartment.subsidy", "0")
	v.SetDefault("parents.secondParticipates", true)
	v.SetDefault("children.count", 0)
	v.SetDefault("calculation.rounding", constants.DefaultRounding)
	v.SetDefault("report.language", constants.DefaultLanguage)
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	if err := configuration.Validate(); err != nil {
		return nil, err
	}

	return &configuration, nil
}

// Validate checks field formats and enumerations. Range checks on the
// amounts themselves belong to the allocator.
func (c *Configuration) Validate() error {
	if err := validation.New().Struct(c); err != nil {
		return validation.Error(err)
	}
	return nil
}

// RoundingMode returns the configured tie-breaking rule.
func (c *Configuration) RoundingMode() (shares.Rounding, error) {
	return shares.ParseRounding(c.Calculation.Rounding)
}

// ReportLanguage returns the configured report language.
func (c *Configuration) ReportLanguage() (report.Language, error) {
	return report.ParseLanguage(c.Report.Language)
}

// ToInput converts the configuration into allocator input. The child name
// list is resized to the configured count.
func (c *Configuration) ToInput() (shares.Input, error) {
	cost, err := parseAmount("apartment.cost", c.Apartment.Cost)
	if err != nil {
		return shares.Input{}, err
	}
	subsidy, err := parseAmount("apartment.subsidy", c.Apartment.Subsidy)
	if err != nil {
		return shares.Input{}, err
	}

	return shares.Input{
		ApartmentCost:   cost,
		SubsidyAmount:   subsidy,
		NumChildren:     c.Children.Count,
		HasSecondParent: c.Parents.SecondParticipates,
		Parent1Name:     c.Parents.First,
		Parent2Name:     c.Parents.Second,
		ChildNames:      shares.ResizeNames(c.Children.Names, c.Children.Count),
	}, nil
}

func parseAmount(field, value string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return decimal.Zero, nil
	}
	amount, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q: %w", field, value, err)
	}
	return amount, nil
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	names := len(c.Children.Names)
	switch {
	case names > c.Children.Count:
		warnings = append(warnings, fmt.Sprintf("%d child names given for %d children; extra names are ignored",
			names, c.Children.Count))
	case names > 0 && names < c.Children.Count:
		warnings = append(warnings, fmt.Sprintf("%d child names given for %d children; placeholders are used for the rest",
			names, c.Children.Count))
	}

	if !c.Parents.SecondParticipates && strings.TrimSpace(c.Parents.Second) != "" {
		warnings = append(warnings, fmt.Sprintf("Second parent '%s' is named but does not participate",
			strings.TrimSpace(c.Parents.Second)))
	}

	cost, costErr := parseAmount("apartment.cost", c.Apartment.Cost)
	subsidy, subsidyErr := parseAmount("apartment.subsidy", c.Apartment.Subsidy)
	if costErr == nil && subsidyErr == nil && cost.IsPositive() {
		if subsidy.IsZero() && c.Children.Count > 0 {
			warnings = append(warnings, "Maternal capital is zero; children receive no share")
		}
		if subsidy.Equal(cost) {
			warnings = append(warnings, "Maternal capital covers the whole apartment; there is no own-funds share")
		}
	}

	seen := make(map[string]bool)
	for _, name := range c.participantNames() {
		if seen[name] {
			warnings = append(warnings, fmt.Sprintf("Participant name '%s' is used more than once", name))
		}
		seen[name] = true
	}

	return warnings
}

// participantNames returns the non-blank names of everyone taking part.
func (c *Configuration) participantNames() []string {
	var names []string
	add := func(name string) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	add(c.Parents.First)
	if c.Parents.SecondParticipates {
		add(c.Parents.Second)
	}
	for _, name := range shares.ResizeNames(c.Children.Names, c.Children.Count) {
		add(name)
	}
	return names
}
