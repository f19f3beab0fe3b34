package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/capital-shares/pkg/report"
	"github.com/iwvelando/capital-shares/pkg/shares"
	"github.com/shopspring/decimal"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func TestLoadConfiguration(t *testing.T) {
	tests := []struct {
		name       string
		configPath string
		wantError  bool
	}{
		{
			name:       "Non-existent config file",
			configPath: "nonexistent.yaml",
			wantError:  true,
		},
		{
			name:       "Example config",
			configPath: filepath.Join("..", "..", "config.yaml.example"),
			wantError:  false,
		},
		{
			name:       "Test config",
			configPath: filepath.Join("..", "..", "test", "test_config.yaml"),
			wantError:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfiguration(tt.configPath)
			if tt.wantError {
				if err == nil {
					t.Errorf("LoadConfiguration() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("LoadConfiguration() error = %v", err)
				return
			}
			if config == nil {
				t.Errorf("LoadConfiguration() returned nil config")
			}
		})
	}
}

func TestLoadConfigurationExample(t *testing.T) {
	conf, err := LoadConfiguration(filepath.Join("..", "..", "config.yaml.example"))
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if conf.Apartment.Cost != "2000000" {
		t.Errorf("expected cost 2000000, got %q", conf.Apartment.Cost)
	}
	if conf.Parents.First != "Ivanova Maria Petrovna" {
		t.Errorf("unexpected first parent %q", conf.Parents.First)
	}
	if !conf.Parents.SecondParticipates {
		t.Error("expected second parent to participate")
	}
	if conf.Children.Count != 2 || len(conf.Children.Names) != 2 {
		t.Errorf("unexpected children %+v", conf.Children)
	}
	if conf.Logging.Format != "console" {
		t.Errorf("expected console logging, got %q", conf.Logging.Format)
	}
	if conf.Output.Format != "pretty" {
		t.Errorf("expected pretty output, got %q", conf.Output.Format)
	}
}

func TestLoadConfigurationDefaults(t *testing.T) {
	conf, err := LoadConfigurationFromReader(strings.NewReader("apartment:\n  cost: 1500000\n"))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}

	if !conf.Parents.SecondParticipates {
		t.Error("second parent should participate by default")
	}
	if conf.Apartment.Subsidy != "0" {
		t.Errorf("expected default subsidy 0, got %q", conf.Apartment.Subsidy)
	}
	if conf.Calculation.Rounding != "half-even" {
		t.Errorf("expected default rounding half-even, got %q", conf.Calculation.Rounding)
	}
	if conf.Report.Language != "en" {
		t.Errorf("expected default language en, got %q", conf.Report.Language)
	}
}

func TestLoadConfigurationEnvironmentOverride(t *testing.T) {
	t.Setenv("CAPITAL_SHARES_APARTMENT_COST", "3000000")

	conf, err := LoadConfiguration(writeConfig(t, "apartment:\n  cost: 1500000\n  subsidy: 500000\n"))
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if conf.Apartment.Cost != "3000000" {
		t.Errorf("expected environment override 3000000, got %q", conf.Apartment.Cost)
	}
}

func TestLoadConfigurationValidationErrors(t *testing.T) {
	tests := []struct {
		name     string
		contents string
		contains string
	}{
		{
			name:     "Missing cost",
			contents: "apartment:\n  subsidy: 100\n",
			contains: "apartment.cost",
		},
		{
			name:     "Non-numeric subsidy",
			contents: "apartment:\n  cost: 100\n  subsidy: plenty\n",
			contains: "apartment.subsidy",
		},
		{
			name:     "Too many children",
			contents: "apartment:\n  cost: 100\nchildren:\n  count: 31\n",
			contains: "children.count",
		},
		{
			name:     "Unknown rounding",
			contents: "apartment:\n  cost: 100\ncalculation:\n  rounding: up\n",
			contains: "calculation.rounding",
		},
		{
			name:     "Unknown output format",
			contents: "apartment:\n  cost: 100\noutput:\n  format: xml\n",
			contains: "output.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfigurationFromReader(strings.NewReader(tt.contents))
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("expected error to mention %q, got %v", tt.contains, err)
			}
		})
	}
}

func TestToInput(t *testing.T) {
	conf := Configuration{
		Apartment: Apartment{Cost: "2000000.50", Subsidy: " 600000 "},
		Parents:   Parents{First: "Maria", Second: "Sergey", SecondParticipates: true},
		Children:  Children{Count: 3, Names: []string{"Petr"}},
	}

	in, err := conf.ToInput()
	if err != nil {
		t.Fatalf("ToInput() error = %v", err)
	}

	if !in.ApartmentCost.Equal(decimal.RequireFromString("2000000.50")) {
		t.Errorf("unexpected cost %s", in.ApartmentCost)
	}
	if !in.SubsidyAmount.Equal(decimal.NewFromInt(600000)) {
		t.Errorf("unexpected subsidy %s", in.SubsidyAmount)
	}
	if in.NumChildren != 3 || len(in.ChildNames) != 3 || in.ChildNames[0] != "Petr" {
		t.Errorf("unexpected children %d %v", in.NumChildren, in.ChildNames)
	}
	if !in.HasSecondParent || in.Parent2Name != "Sergey" {
		t.Errorf("unexpected second parent %v %q", in.HasSecondParent, in.Parent2Name)
	}
}

func TestToInputInvalidAmount(t *testing.T) {
	conf := Configuration{Apartment: Apartment{Cost: "abc"}}
	if _, err := conf.ToInput(); err == nil {
		t.Fatal("expected parse error for non-numeric cost")
	}
}

func TestToInputFeedsAllocator(t *testing.T) {
	conf, err := LoadConfiguration(filepath.Join("..", "..", "config.yaml.example"))
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	in, err := conf.ToInput()
	if err != nil {
		t.Fatalf("ToInput() error = %v", err)
	}
	rounding, err := conf.RoundingMode()
	if err != nil {
		t.Fatalf("RoundingMode() error = %v", err)
	}

	res, err := shares.Allocate(in, shares.WithRounding(rounding))
	if err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}
	if res.Parent1Parts != 425 || res.Parent2Parts != 425 || res.ChildShareParts != 75 {
		t.Errorf("unexpected allocation %+v", res)
	}
}

func TestReportLanguage(t *testing.T) {
	conf := Configuration{Report: ReportConfig{Language: "ru"}}
	lang, err := conf.ReportLanguage()
	if err != nil {
		t.Fatalf("ReportLanguage() error = %v", err)
	}
	if lang != report.Russian {
		t.Errorf("expected Russian, got %s", lang)
	}
}
