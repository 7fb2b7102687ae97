// Package xlsx renders a comparison report as an Excel workbook for
// sharing outside the app.
package xlsx

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/dsokolov/procurement-assistant/internal/core/domain"
)

const sheetName = "Comparison"

var headers = []string{
	"Vendor", "Total Score", "Total Price", "Currency",
	"Delivery (days)", "Warranty (months)", "Completeness",
	"Price Score", "Delivery Score", "Warranty Score", "Completeness Score",
}

// Build renders the scored proposals and the recommendation into a
// single-sheet workbook, best total score first.
func Build(rfp *domain.RFP, report *domain.ComparisonReport) ([]byte, error) {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	if err := setRow(f, 1, []any{fmt.Sprintf("RFP: %s", rfp.Title)}); err != nil {
		return nil, err
	}
	if err := setRow(f, 3, toAny(headers)); err != nil {
		return nil, err
	}

	row := 4
	for _, proposal := range sortedByScore(report.Proposals) {
		values := []any{
			proposal.Vendor.Name,
			proposal.CalculatedScore,
			orEmpty(proposal.TotalPrice),
			proposal.Currency,
			orEmpty(proposal.DeliveryDays),
			orEmpty(proposal.WarrantyMonths),
			orEmpty(proposal.CompletenessScore),
			proposal.Breakdown.Price,
			proposal.Breakdown.Delivery,
			proposal.Breakdown.Warranty,
			proposal.Breakdown.Completeness,
		}
		if err := setRow(f, row, values); err != nil {
			return nil, err
		}
		row++
	}

	row++
	if err := setRow(f, row, []any{"Recommendation"}); err != nil {
		return nil, err
	}
	if err := setRow(f, row+1, []any{report.Recommendation.Reasoning}); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, row int, values []any) error {
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, value); err != nil {
			return fmt.Errorf("set cell %s: %w", cell, err)
		}
	}
	return nil
}

func sortedByScore(proposals []domain.ScoredProposal) []domain.ScoredProposal {
	out := make([]domain.ScoredProposal, len(proposals))
	copy(out, proposals)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CalculatedScore > out[j].CalculatedScore
	})
	return out
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func orEmpty[T any](v *T) any {
	if v == nil {
		return ""
	}
	return *v
}
