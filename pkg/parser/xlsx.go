package parser

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"texrecon/pkg/models"
)

// ParseXLSX decodes an .xlsx workbook's first sheet and parses it as a
// report. Only cell text matters here; styles, formulas and further sheets
// are ignored.
func (p *Parser) ParseXLSX(data []byte) ([]*models.Record, error) {
	workbook, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("error opening xlsx workbook: %w", err)
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := workbook.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("error reading sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in sheet")
	}

	p.logger.Debug("read xlsx sheet", "sheet", sheets[0], "rows", len(rows))
	return p.Parse(p.encodeGrid(rows)), nil
}
