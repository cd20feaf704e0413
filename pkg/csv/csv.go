// Package csv serializes record sets back into delimited text. It is the
// inverse of the report parser minus the header heuristics: the first
// record's key order becomes the column header, every value is quoted with
// internal quotes doubled, and an empty record set serializes to an empty
// string rather than an error.
package csv

import (
	"bytes"
	"strings"

	"texrecon/pkg/models"
)

// Create serializes records into a delimited-text blob.
func Create(records []*models.Record, delim rune) []byte {
	if len(records) == 0 {
		return nil
	}

	headers := records[0].Keys()

	var buf bytes.Buffer
	for i, header := range headers {
		if i > 0 {
			buf.WriteRune(delim)
		}
		buf.WriteString(header)
	}

	for _, record := range records {
		buf.WriteByte('\n')
		for i, header := range headers {
			if i > 0 {
				buf.WriteRune(delim)
			}
			buf.WriteByte('"')
			buf.WriteString(strings.ReplaceAll(record.Get(header), `"`, `""`))
			buf.WriteByte('"')
		}
	}

	return buf.Bytes()
}
