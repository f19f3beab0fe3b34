package integration

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/iwvelando/capital-shares/internal/config"
	"github.com/iwvelando/capital-shares/pkg/constants"
	"github.com/iwvelando/capital-shares/pkg/output"
	"github.com/iwvelando/capital-shares/pkg/report"
	"github.com/iwvelando/capital-shares/pkg/shares"
	"github.com/iwvelando/capital-shares/pkg/testutil"
	"go.uber.org/zap"
)

// calculate runs a configuration file through the same steps as the
// calculate command.
func calculate(t *testing.T, path string) (shares.Input, shares.Result, report.Report) {
	t.Helper()

	conf, err := config.LoadConfiguration(path)
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
	lang, err := conf.ReportLanguage()
	if err != nil {
		t.Fatalf("ReportLanguage() error = %v", err)
	}

	res, err := shares.Allocate(in, shares.WithRounding(rounding), shares.WithLogger(zap.NewNop()))
	if err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}
	return in, res, report.Build(in, res, lang)
}

// TestMainIntegrationBaseline checks the test configuration against the
// shares captured for it.
func TestMainIntegrationBaseline(t *testing.T) {
	_, res, rep := calculate(t, "../test_config.yaml")

	if res.SubsidyShareParts != 300 || res.NonSubsidyShareParts != 700 {
		t.Errorf("unexpected subsidy split %d/%d", res.SubsidyShareParts, res.NonSubsidyShareParts)
	}
	if res.Parent1Parts != 425 || res.Parent2Parts != 425 || res.ChildShareParts != 75 {
		t.Errorf("unexpected shares %+v", res)
	}
	if res.Sum() != constants.Denominator {
		t.Errorf("shares sum to %d", res.Sum())
	}

	expectedOwners := []string{"Maria", "Sergey", "Petr", "Child 2"}
	if len(rep.Owners) != len(expectedOwners) {
		t.Fatalf("expected %d owners, got %d", len(expectedOwners), len(rep.Owners))
	}
	for _, name := range expectedOwners {
		if testutil.FindOwner(rep, name) == nil {
			t.Errorf("owner %q not found in report", name)
		}
	}
}

// TestCSVOutputFormat compares CSV output with the stored baseline.
func TestCSVOutputFormat(t *testing.T) {
	_, _, rep := calculate(t, "../test_config.yaml")

	baseline, err := os.ReadFile("../baseline/baseline_output.csv")
	if err != nil {
		t.Fatalf("Could not open baseline CSV file: %v", err)
	}

	got := output.CsvString(rep)
	if got != string(baseline) {
		t.Errorf("CSV output differs from baseline\nexpected:\n%s\ngot:\n%s", baseline, got)
	}
}

// TestPrettyOutputFormat tests the pretty print output
func TestPrettyOutputFormat(t *testing.T) {
	_, _, rep := calculate(t, "../../config.yaml.example")

	var buf bytes.Buffer
	if err := output.WritePretty(&buf, rep); err != nil {
		t.Fatalf("WritePretty() error = %v", err)
	}
	text := buf.String()

	expected := []string{
		"Apartment cost: 2,000,000.00",
		"Maternal capital used: 600,000.00",
		"Maternal capital share of the apartment: 300/1000",
		"Own funds share of the apartment: 700/1000",
		"Ivanova Maria Petrovna: 350/1000",
		"Ivanova Maria Petrovna: 425/1000",
		"Ivanova Olga Sergeevna: 75/1000",
		"Share distribution (%)",
	}
	for _, want := range expected {
		if !strings.Contains(text, want) {
			t.Errorf("pretty output missing %q:\n%s", want, text)
		}
	}
}

// TestJSONOutputFormat checks that the JSON report decodes back into the
// same report.
func TestJSONOutputFormat(t *testing.T) {
	_, _, rep := calculate(t, "../test_config.yaml")

	var buf bytes.Buffer
	if err := output.WriteJSON(&buf, rep); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	var decoded report.Report
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode JSON report: %v", err)
	}
	if len(decoded.Owners) != len(rep.Owners) {
		t.Fatalf("expected %d owners, got %d", len(rep.Owners), len(decoded.Owners))
	}
	for i := range rep.Owners {
		if decoded.Owners[i].Total != rep.Owners[i].Total {
			t.Errorf("owner %d total %v, expected %v", i, decoded.Owners[i].Total, rep.Owners[i].Total)
		}
	}
}

// TestConfigurationValidation checks the warnings raised for the shipped
// configurations.
func TestConfigurationValidation(t *testing.T) {
	tests := []struct {
		path     string
		warnings int
	}{
		{path: "../../config.yaml.example", warnings: 0},
		{path: "../test_config.yaml", warnings: 1},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			conf, err := config.LoadConfiguration(tt.path)
			if err != nil {
				t.Fatalf("LoadConfiguration() error = %v", err)
			}
			warnings := conf.ValidateConfiguration()
			if len(warnings) != tt.warnings {
				t.Errorf("expected %d warnings, got %v", tt.warnings, warnings)
			}
		})
	}
}

// TestConfigurationVariations runs households of different shapes end to
// end and checks the report stays consistent with the allocation.
func TestConfigurationVariations(t *testing.T) {
	tests := []struct {
		name     string
		contents string
		owners   int
		p1       int
		child    int
	}{
		{
			name:     "Single parent, no subsidy",
			contents: "apartment:\n  cost: 3500000\nparents:\n  secondParticipates: false\n",
			owners:   1,
			p1:       1000,
		},
		{
			name:     "Two parents, three children",
			contents: "apartment:\n  cost: 4000000\n  subsidy: 453026\nchildren:\n  count: 3\n",
			owners:   5,
			p1:       466,
			child:    23,
		},
		{
			name:     "Fully subsidized, Russian report",
			contents: "apartment:\n  cost: 1000\n  subsidy: 1000\nchildren:\n  count: 2\nreport:\n  language: ru\n",
			owners:   4,
			p1:       250,
			child:    250,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := t.TempDir() + "/config.yaml"
			if err := os.WriteFile(path, []byte(tt.contents), 0600); err != nil {
				t.Fatalf("failed to write config: %v", err)
			}

			_, res, rep := calculate(t, path)
			if len(rep.Owners) != tt.owners {
				t.Fatalf("expected %d owners, got %d", tt.owners, len(rep.Owners))
			}
			if res.Parent1Parts != tt.p1 || res.ChildShareParts != tt.child {
				t.Errorf("unexpected shares %+v", res)
			}
			if err := res.Validate(); err != nil {
				t.Errorf("Validate() error = %v", err)
			}
			if total := rep.ChartTotal(); total < 100-constants.PercentTolerance || total > 100+constants.PercentTolerance {
				t.Errorf("chart total %v", total)
			}
		})
	}
}
