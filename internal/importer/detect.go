package importer

// detect.go classifies raw input as one of the supported export formats
// by inspecting the first logical row (CSV) or the document shape (JSON).
// Detection happens exactly once per import call, before any row mapping.

import (
	"bytes"
	"strings"
)

// Verbatim headers of the two fixed CSV schemas. Compatibility with
// existing exports matters, so these are compared exactly (after BOM and
// whitespace stripping).
const (
	customCSVHeader = "ID,Title,Abstract,Talk Details,Duration,Speaker Name,Speaker Email,Speaker Username,Bio,Icon URL,Notes,Conference,Submitted At"

	standardCSVHeader = "name,email,avatar,location,bio,twitter,url,organization,shirt_size,talk_format,title,abstract,description,notes,audience_level,tags,rating,state,confirmed,created_at,additional_info"
)

// The Google Form header is matched by prefix because trailing columns
// vary by form revision.
const googleFormHeaderPrefix = "タイムスタンプ,Email,Your Name"

// headerPreviewLen caps the header excerpt carried in
// UnrecognizedFormatError.
const headerPreviewLen = 120

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Detect classifies data. The match order for CSV headers is
// Custom → Standard → GoogleForm; first match wins.
//
// Returns ErrEmptyFile for blank input and UnrecognizedFormatError when
// no known shape matches. A JSON document that is not a top-level array
// is a shape mismatch, not invalid JSON.
func Detect(data []byte) (Format, error) {
	trimmed := bytes.TrimSpace(bytes.TrimPrefix(data, utf8BOM))
	if len(trimmed) == 0 {
		return "", ErrEmptyFile
	}

	// JSON input must be a top-level array. Whether it actually decodes
	// is the decoder's concern, not the detector's.
	if trimmed[0] == '[' {
		return FormatPaperCallJSON, nil
	}
	if trimmed[0] == '{' {
		return "", &UnrecognizedFormatError{Preview: preview(trimmed)}
	}

	header := firstLine(trimmed)
	switch {
	case header == customCSVHeader:
		return FormatCustomCSV, nil
	case header == standardCSVHeader:
		return FormatStandardCSV, nil
	case strings.HasPrefix(header, googleFormHeaderPrefix):
		return FormatGoogleFormCSV, nil
	}

	return "", &UnrecognizedFormatError{Preview: preview([]byte(header))}
}

// FormatInfo describes one supported format for API listings and
// template downloads.
type FormatInfo struct {
	Format Format `json:"format"`
	Kind   string `json:"kind"` // "csv" or "json"
	Header string `json:"header,omitempty"`
}

// Formats lists the supported export formats in detection order.
func Formats() []FormatInfo {
	return []FormatInfo{
		{Format: FormatCustomCSV, Kind: "csv", Header: customCSVHeader},
		{Format: FormatStandardCSV, Kind: "csv", Header: standardCSVHeader},
		{Format: FormatGoogleFormCSV, Kind: "csv", Header: googleFormHeaderPrefix + ",..."},
		{Format: FormatPaperCallJSON, Kind: "json"},
	}
}

// firstLine returns the first physical line, trimmed. None of the known
// headers contain quoted fields, so splitting on the first newline is
// safe here.
func firstLine(data []byte) string {
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		data = data[:i]
	}
	return strings.TrimSpace(string(data))
}

func preview(data []byte) string {
	s := strings.TrimSpace(string(data))
	if len(s) > headerPreviewLen {
		s = s[:headerPreviewLen] + "..."
	}
	return s
}
