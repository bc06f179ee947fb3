package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/lifeplan/household-calculator/internal/domain"
)

// CSVLedgerExporter writes the full ledger, one row per projected year.
type CSVLedgerExporter struct{}

func (c CSVLedgerExporter) Name() string { return "csv" }

func (c CSVLedgerExporter) Format(result *domain.ProjectionResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Age", "Year", "BeginningBalance", "Income", "TotalInflow", "Expenses", "EventCosts", "LoanPayments", "CashFlow", "EndingBalance", "Deficit"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, e := range result.Entries {
		row := []string{
			strconv.Itoa(e.Age),
			strconv.Itoa(e.Year),
			e.BeginningBalance.StringFixed(2),
			e.Income.StringFixed(2),
			e.TotalInflow.StringFixed(2),
			e.Expenses.StringFixed(2),
			e.EventCosts.StringFixed(2),
			e.LoanPayments.StringFixed(2),
			e.CashFlow.StringFixed(2),
			e.EndingBalance.StringFixed(2),
			strconv.FormatBool(e.InDeficit()),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
