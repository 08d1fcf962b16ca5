package request

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jwalitptl/meditrack/internal/model"
	apperrors "github.com/jwalitptl/meditrack/pkg/errors"
)

const historySheet = "Requests"

var historyHeaders = []string{
	"Request ID", "Submitted", "Medicine", "Requested For", "Patient",
	"Relationship", "Reason", "Status", "Proof Attached",
}

var historyColumnWidths = []float64{12, 20, 28, 14, 28, 16, 40, 16, 14}

// ExportHistory renders the resident's request history as an xlsx workbook.
func (s *Service) ExportHistory(ctx context.Context, residentID int64) ([]byte, error) {
	requests, err := s.History(ctx, residentID)
	if err != nil {
		return nil, err
	}
	data, err := historyWorkbook(requests)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return data, nil
}

func historyWorkbook(requests []*model.RequestSummary) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), historySheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	header := make([]interface{}, len(historyHeaders))
	for i, h := range historyHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(historySheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(historyHeaders))
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(historySheet, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, fmt.Errorf("failed to set header style: %w", err)
	}
	for i, w := range historyColumnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(historySheet, col, col, w); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for i, r := range requests {
		proof := "No"
		if r.ProofImagePath != nil {
			proof = "Yes"
		}
		row := []interface{}{
			r.ID,
			r.CreatedAt.Format("2006-01-02 15:04"),
			r.MedicineName,
			string(r.RequestedFor),
			r.PatientName,
			r.Relationship,
			r.Reason,
			string(r.Status),
			proof,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(historySheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(historySheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("failed to freeze panes: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
