package importer

// papercall_json.go decodes the PaperCall JSON export: a top-level array
// of entries where only name, email and title are required by the source
// schema. Absent optional fields decode to the empty string, which the
// store maps to NULL.

import (
	"encoding/json"
	"fmt"
)

type paperCallEntry struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Title       string `json:"title"`
	Abstract    string `json:"abstract"`
	Description string `json:"description"`
	Notes       string `json:"notes"`
	Bio         string `json:"bio"`
	TalkFormat  string `json:"talk_format"`
	Twitter     string `json:"twitter"`
	Avatar      string `json:"avatar"`
	CreatedAt   string `json:"created_at"`
}

// decodePaperCallJSON parses the document. Decode failures are fatal;
// a well-formed but empty array is the distinct ErrEmptyArray condition.
func decodePaperCallJSON(data []byte) ([]paperCallEntry, error) {
	var entries []paperCallEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, &InvalidJSONError{Err: err}
	}
	if len(entries) == 0 {
		return nil, ErrEmptyArray
	}
	return entries, nil
}

// candidate converts one decoded entry, enforcing the required keys.
func (e paperCallEntry) candidate() (RawCandidate, error) {
	switch {
	case cleanCell(e.Title) == "":
		return RawCandidate{}, fmt.Errorf("missing required field %q", "title")
	case cleanCell(e.Email) == "":
		return RawCandidate{}, fmt.Errorf("missing required field %q", "email")
	case cleanCell(e.Name) == "":
		return RawCandidate{}, fmt.Errorf("missing required field %q", "name")
	}

	c := RawCandidate{
		SpeakerName:    cleanCell(e.Name),
		SpeakerEmail:   cleanCell(e.Email),
		Title:          cleanCell(e.Title),
		Abstract:       cleanCell(e.Abstract),
		TalkDetail:     cleanCell(e.Description),
		Notes:          cleanCell(e.Notes),
		Bio:            cleanCell(e.Bio),
		DurationRaw:    cleanCell(e.TalkFormat),
		SpeakerHandle:  cleanCell(e.Twitter),
		IconURL:        cleanCell(e.Avatar),
		SubmittedAtRaw: cleanCell(e.CreatedAt),
	}
	c.SourceID = synthesizeSourceID(c.SpeakerEmail, c.Title)
	return c, nil
}
