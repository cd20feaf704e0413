package parser

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"texrecon/pkg/models"
)

// headerKeywords is the union of the column names expected in purchase-order
// and sales-tax reports. "Suppiler Name" is the source's own spelling and is
// kept verbatim for compatibility. The row containing the most of these wins
// header detection.
var headerKeywords = []string{
	"Store Code",
	"Invoice Number",
	"Suppiler Name",
	"Item Id",
	"Material Code",
	"Receipt Id",
	"Bar Code",
}

// headerScanLimit bounds how many leading rows are scanned for the header,
// enough to skip report titles and preamble blocks.
const headerScanLimit = 20

// Parser turns raw report bytes into field-mapping records. Reports arrive as
// .xls/.xlsx workbooks or already-delimited text; either way the sheet is
// reduced to delimited lines first and then run through the same
// header-detecting parse.
type Parser struct {
	logger *log.Logger

	// Delimiter separates fields in delimited input and in the intermediate
	// form produced from workbooks. Defaults to comma.
	Delimiter rune
}

func New(logger *log.Logger) *Parser {
	return &Parser{
		logger:    logger,
		Delimiter: ',',
	}
}

// ProcessBytes parses a whole report, picking the decoder from the filename
// extension.
func (p *Parser) ProcessBytes(data []byte, filename string) ([]*models.Record, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	p.logger.Debug("processing report", "filename", filename, "ext", ext, "bytes", len(data))

	switch ext {
	case ".xls":
		return p.ParseXLS(data)
	case ".xlsx":
		return p.ParseXLSX(data)
	case ".csv", ".txt":
		return p.Parse(string(data)), nil
	default:
		return nil, fmt.Errorf("unsupported report type %q", filename)
	}
}

// Parse consumes a delimited-text blob, locates the header row among the
// leading lines, and maps every subsequent usable row into a Record.
// Decorative rows (too few fields, all blank, fewer than two meaningful
// values) are discarded.
func (p *Parser) Parse(text string) []*models.Record {
	lines := nonBlankLines(text)
	if len(lines) == 0 {
		return nil
	}

	headerIndex := p.detectHeaderRow(lines)

	// Header rows in these exports are simple; a plain split is enough.
	rawHeaders := strings.Split(lines[headerIndex], string(p.Delimiter))
	headers := make([]string, len(rawHeaders))
	for i, h := range rawHeaders {
		headers[i] = strings.TrimSpace(h)
	}

	var records []*models.Record
	for _, line := range lines[headerIndex+1:] {
		values := SplitLine(line, p.Delimiter)

		// Rows with fewer than half the header's fields are not data rows.
		if 2*len(values) < len(headers) {
			continue
		}
		if allBlank(values) {
			continue
		}

		record := models.NewRecord()
		for i, header := range headers {
			if header == "" {
				continue
			}
			value := ""
			if i < len(values) {
				value = strings.TrimSpace(values[i])
			}
			record.Set(header, value)
		}

		// A row carrying at most one meaningful value is a stray subtotal or
		// annotation, not data.
		if record.NonEmptyFieldCount() <= 1 {
			continue
		}

		records = append(records, record)
	}

	p.logger.Debug("parsed report", "header_row", headerIndex, "columns", len(headers), "records", len(records))
	return records
}

// detectHeaderRow scores the leading lines by how many known column names
// they contain and returns the best-scoring index. Ties keep the earliest
// line; when nothing scores, the first line is assumed to be the header.
func (p *Parser) detectHeaderRow(lines []string) int {
	limit := headerScanLimit
	if len(lines) < limit {
		limit = len(lines)
	}

	headerIndex := 0
	maxKeywordCount := 0
	for i := 0; i < limit; i++ {
		count := 0
		for _, keyword := range headerKeywords {
			if strings.Contains(lines[i], keyword) {
				count++
			}
		}
		if count > maxKeywordCount {
			maxKeywordCount = count
			headerIndex = i
		}
	}
	return headerIndex
}

// encodeGrid reduces a sheet's cell grid to delimited text that Parse
// understands, quoting cells that would otherwise break tokenization.
func (p *Parser) encodeGrid(rows [][]string) string {
	var sb strings.Builder
	for i, row := range rows {
		if i > 0 {
			sb.WriteByte('\n')
		}
		for j, cell := range row {
			if j > 0 {
				sb.WriteRune(p.Delimiter)
			}
			sb.WriteString(p.encodeCell(cell))
		}
	}
	return sb.String()
}

func (p *Parser) encodeCell(cell string) string {
	if strings.ContainsRune(cell, p.Delimiter) || strings.ContainsAny(cell, "\"\n\r") {
		return `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
	}
	return cell
}

func nonBlankLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func allBlank(values []string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
