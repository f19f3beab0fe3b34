// Package output provides utilities for formatting and displaying share reports.
package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/capital-shares/pkg/constants"
	"github.com/iwvelando/capital-shares/pkg/format"
	"github.com/iwvelando/capital-shares/pkg/report"
)

// barWidth is the number of cells a 100% chart bar spans.
const barWidth = 50

// Write renders r to w in the named output format.
func Write(w io.Writer, outputFormat string, r report.Report) error {
	switch outputFormat {
	case constants.OutputFormatPretty:
		return WritePretty(w, r)
	case constants.OutputFormatCSV:
		return WriteCSV(w, r)
	case constants.OutputFormatJSON:
		return WriteJSON(w, r)
	default:
		return fmt.Errorf("unsupported output format: %s", outputFormat)
	}
}

// PrettyString returns the human-readable report as a string.
func PrettyString(r report.Report) string {
	var buf bytes.Buffer
	_ = WritePretty(&buf, r)
	return buf.String()
}

// CsvString returns the CSV report as a string.
func CsvString(r report.Report) string {
	var buf bytes.Buffer
	_ = WriteCSV(&buf, r)
	return buf.String()
}

// WritePretty writes the report in the layout of a printed share
// calculation: subsidy split, shares excluding the subsidy, shares
// including it, then a text chart.
func WritePretty(w io.Writer, r report.Report) error {
	p := r.Language.Printer()
	ew := &errWriter{w: w}

	ew.line(p.Sprintf(report.MsgApartmentCost, r.ApartmentCost))
	ew.line(p.Sprintf(report.MsgSubsidyAmount, r.SubsidyAmount))
	ew.line("")
	ew.line(p.Sprintf(report.MsgSubsidyShare, r.SubsidyShare.String()))
	ew.line(p.Sprintf(report.MsgOwnFundsShare, r.OwnFundsShare.String()))
	ew.line("")

	ew.line(p.Sprintf(report.MsgExcludingSection))
	for _, owner := range r.Parents() {
		ew.line(fmt.Sprintf(report.MsgOwnerLine, owner.Name, owner.ExcludingSubsidy.String()))
	}
	ew.line("")

	ew.line(p.Sprintf(report.MsgIncludingSection))
	for _, owner := range r.Owners {
		ew.line(fmt.Sprintf(report.MsgOwnerLine, owner.Name, owner.Total.String()))
	}
	ew.line("")

	ew.line(r.ChartTitle)
	labelWidth := 0
	for _, slice := range r.Chart {
		if n := len([]rune(slice.Label)); n > labelWidth {
			labelWidth = n
		}
	}
	for _, slice := range r.Chart {
		pad := strings.Repeat(" ", labelWidth-len([]rune(slice.Label)))
		bar := strings.Repeat("#", int(slice.Percent/100*barWidth+0.5))
		ew.line(fmt.Sprintf("%s%s | %7s | %s", slice.Label, pad, format.Percent(slice.Percent), bar))
	}

	return ew.err
}

// WriteCSV writes one row per owner.
func WriteCSV(w io.Writer, r report.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"name", "role", "excluding_subsidy", "total", "percent"}); err != nil {
		return err
	}
	for _, owner := range r.Owners {
		excluding := ""
		if owner.ExcludingSubsidy != nil {
			excluding = owner.ExcludingSubsidy.String()
		}
		row := []string{
			owner.Name,
			string(owner.Role),
			excluding,
			owner.Total.String(),
			fmt.Sprintf("%.2f", owner.Percent),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the report as indented JSON.
func WriteJSON(w io.Writer, r report.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) line(s string) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintln(e.w, s)
}
