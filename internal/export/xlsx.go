package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Jobs"

var colWidths = []float64{14, 16, 38, 22, 22, 22, 16, 14, 14, 55, 8, 65}

// WriteXLSX writes recs to a styled workbook: banner header, banded rows,
// frozen header row and an autofilter over the header.
func WriteXLSX(path string, recs []Record) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("export xlsx: %w", err)
	}

	border := []excelize.Border{
		{Type: "left", Color: "BDD7EE", Style: 1},
		{Type: "right", Color: "BDD7EE", Style: 1},
		{Type: "top", Color: "BDD7EE", Style: 1},
		{Type: "bottom", Color: "BDD7EE", Style: 1},
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Family: "Arial", Size: 11, Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"1F4E79"}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    border,
	})
	if err != nil {
		return fmt.Errorf("export xlsx: header style: %w", err)
	}
	cellStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Family: "Arial", Size: 10},
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
		Border:    border,
	})
	if err != nil {
		return fmt.Errorf("export xlsx: cell style: %w", err)
	}
	altStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Family: "Arial", Size: 10},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"EBF3FB"}},
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
		Border:    border,
	})
	if err != nil {
		return fmt.Errorf("export xlsx: alt style: %w", err)
	}

	lastCol, err := excelize.ColumnNumberToName(len(Columns))
	if err != nil {
		return err
	}

	header := make([]any, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("export xlsx: header: %w", err)
	}
	if err := f.SetCellStyle(sheetName, "A1", lastCol+"1", headerStyle); err != nil {
		return err
	}
	if err := f.SetRowHeight(sheetName, 1, 32); err != nil {
		return err
	}

	for i, r := range recs {
		row := i + 2
		vals := r.values()
		cells := make([]any, len(vals))
		for k, v := range vals {
			cells[k] = v
		}
		start, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(sheetName, start, &cells); err != nil {
			return fmt.Errorf("export xlsx: row %s: %w", r.ReqID, err)
		}
		style := cellStyle
		if row%2 == 0 {
			style = altStyle
		}
		end, _ := excelize.CoordinatesToCellName(len(Columns), row)
		if err := f.SetCellStyle(sheetName, start, end, style); err != nil {
			return err
		}
	}

	for i, w := range colWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheetName, col, col, w); err != nil {
			return err
		}
	}

	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("export xlsx: freeze: %w", err)
	}

	lastRow := len(recs) + 1
	if err := f.AutoFilter(sheetName, fmt.Sprintf("A1:%s%d", lastCol, lastRow), nil); err != nil {
		return fmt.Errorf("export xlsx: autofilter: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("export xlsx: save: %w", err)
	}
	return nil
}

func ReadXLSX(path string) ([]Record, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("read xlsx: %w", err)
	}
	out := []Record{}
	if len(rows) == 0 {
		return out, nil
	}
	for _, vals := range rows[1:] {
		out = append(out, recordFromValues(rows[0], vals))
	}
	return out, nil
}
