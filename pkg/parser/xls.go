package parser

import (
	"bytes"
	"fmt"

	"github.com/extrame/xls"

	"texrecon/pkg/models"
)

// maxSheetRows caps how much of a workbook is read. Monthly report exports
// run a few thousand rows at most.
const maxSheetRows = 50000

// ParseXLS decodes a legacy .xls workbook's first sheet and parses it as a
// report.
func (p *Parser) ParseXLS(data []byte) ([]*models.Record, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("error opening xls workbook: %w", err)
	}

	rows := workbook.ReadAllCells(maxSheetRows)
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in sheet")
	}

	p.logger.Debug("read xls sheet", "rows", len(rows))
	return p.Parse(p.encodeGrid(rows)), nil
}
