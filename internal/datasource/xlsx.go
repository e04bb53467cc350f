package datasource

import (
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/wandb/wandb/chartsync/internal/observability/wberrors"
)

// readXLSX reads a worksheet whose first row holds the column names.
//
// Cells are read as their formatted text. The first sheet is used when
// sheet is empty.
func readXLSX(r io.Reader, sheet string) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, wberrors.Newf("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	cells, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	if len(cells) == 0 {
		return nil, nil
	}

	header := cells[0]
	rows := make([]Row, 0, len(cells)-1)
	for _, line := range cells[1:] {
		row := make(Row, len(header))
		for i, name := range header {
			if i < len(line) && line[i] != "" {
				row[name] = line[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
