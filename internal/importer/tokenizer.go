package importer

// tokenizer.go splits raw CSV text into logical rows of fields.
//
// The tokenizer is schema-free and pure: it knows nothing about headers
// or column meanings. Quoted fields may contain literal commas, newlines
// and escaped quotes (""). Leading/trailing whitespace in unquoted fields
// is preserved; trimming is the mapper's responsibility so headers can be
// matched exactly before business fields are cleaned.

import "strings"

// Tokenize parses data into logical rows. It returns a MalformedRowError
// if end-of-input is reached while a quoted field is still open.
//
// Both \r\n and bare \n terminate a row; a lone \r outside quotes does
// too. Inside quotes all bytes are ordinary data. Fully blank lines
// produce no row.
func Tokenize(data []byte) ([][]string, error) {
	var (
		rows     [][]string
		row      []string
		field    strings.Builder
		inQuote  bool // currently inside an open quoted field
		quoted   bool // current field began with a quote
		quoteRow int  // row where the open quote began, for error reporting
		sawAny   bool // current line has any content (fields or separators)
	)

	s := string(data)
	for i := 0; i < len(s); i++ {
		c := s[i]

		if inQuote {
			if c != '"' {
				field.WriteByte(c)
				continue
			}
			// Doubled quote is an escaped literal quote.
			if i+1 < len(s) && s[i+1] == '"' {
				field.WriteByte('"')
				i++
			} else {
				inQuote = false
			}
			continue
		}

		switch {
		case c == '"' && field.Len() == 0 && !quoted:
			// Only a quote at the very start of a field opens quoting;
			// anywhere else it is ordinary data.
			inQuote = true
			quoted = true
			quoteRow = len(rows) + 1
			sawAny = true

		case c == ',':
			row = append(row, field.String())
			field.Reset()
			quoted = false
			sawAny = true

		case c == '\n' || c == '\r':
			if c == '\r' && i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
			if sawAny {
				row = append(row, field.String())
				rows = append(rows, row)
			}
			row = nil
			field.Reset()
			quoted = false
			sawAny = false

		default:
			field.WriteByte(c)
			sawAny = true
		}
	}

	if inQuote {
		return nil, &MalformedRowError{Row: quoteRow}
	}

	if sawAny {
		row = append(row, field.String())
		rows = append(rows, row)
	}

	return rows, nil
}

// QuoteField wraps value in the CSV quoting convention so that
// Tokenize(QuoteField(v)) yields v again. Used when writing failed-row
// exports and by the round-trip tests.
func QuoteField(value string) string {
	if !strings.ContainsAny(value, ",\"\n\r") {
		return value
	}
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}
