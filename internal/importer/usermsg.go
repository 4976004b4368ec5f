package importer

// usermsg.go translates technical errors into user-facing messages with
// support codes. Operators quote the code when filing a report, which
// beats pasting a Go error string into chat.
//
// Codes:
//
//	IMP001 - empty file
//	IMP002 - unrecognized format
//	IMP003 - malformed CSV (unterminated quoted field)
//	IMP004 - invalid JSON
//	IMP005 - empty JSON array
//	IMP006 - request cancelled / timed out
//	SYS001 - anything else
import (
	"context"
	"errors"
	"strconv"
)

// UserMessage is a user-friendly rendering of an error.
type UserMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
}

// MapError maps an import error to a UserMessage. Unknown errors get a
// generic message; the technical detail belongs in the server log, not
// the response.
func MapError(err error) UserMessage {
	var (
		unrecognized *UnrecognizedFormatError
		malformed    *MalformedRowError
		invalidJSON  *InvalidJSONError
	)

	switch {
	case errors.Is(err, ErrEmptyFile):
		return UserMessage{
			Code:    "IMP001",
			Message: "The uploaded file is empty.",
			Action:  "Upload an export that contains at least one proposal.",
		}
	case errors.As(err, &unrecognized):
		return UserMessage{
			Code:    "IMP002",
			Message: "The file does not match any supported export format.",
			Action:  "Supported formats: the 13-column custom CSV, the PaperCall CSV export, the Google Form response CSV, and the PaperCall JSON export.",
		}
	case errors.As(err, &malformed):
		return UserMessage{
			Code:    "IMP003",
			Message: "The CSV file is malformed: a quoted field is never closed.",
			Action:  "Re-export the file, or check row " + strconv.Itoa(malformed.Row) + " for an unmatched quote character.",
		}
	case errors.As(err, &invalidJSON):
		return UserMessage{
			Code:    "IMP004",
			Message: "The file is not valid JSON.",
			Action:  "Re-export from PaperCall and upload the unmodified file.",
		}
	case errors.Is(err, ErrEmptyArray):
		return UserMessage{
			Code:    "IMP005",
			Message: "The JSON export contains no entries.",
			Action:  "Nothing to import. Check that the export covers the intended event.",
		}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return UserMessage{
			Code:    "IMP006",
			Message: "The import was cancelled or timed out.",
			Action:  "Try again, or upload a smaller file.",
		}
	}

	return UserMessage{
		Code:    "SYS001",
		Message: "The import failed unexpectedly.",
		Action:  "Try again; if the problem persists, contact support and quote this code.",
	}
}
