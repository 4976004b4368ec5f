package importer

// googleform.go maps the Google Form response CSV. The form header
// drifts across revisions (extra columns get appended), so the detector
// matches it by prefix and this mapper addresses columns by position
// with a minimum-width check instead of a binding table.
//
// A row whose talk-title column is empty is an abandoned form response,
// not an error: it is skipped and the batch continues.

import (
	"fmt"
	"strings"
)

// Column positions in the form response sheet. Revisions only ever
// append columns, so these stay stable.
const (
	gfColTimestamp     = 0
	gfColEmail         = 1
	gfColName          = 2
	gfColTitle         = 3
	gfColAbstract      = 4
	gfColTalkDetail    = 5
	gfColDuration      = 6
	gfColLanguage      = 7
	gfColBio           = 8
	gfColSNS           = 9
	gfColExpertise     = 10
	gfColExperience    = 11
	gfColLocation      = 12
	gfColTravelSupport = 13
	gfColIconURL       = 14

	// Present only in later form revisions.
	gfColExtraNotes = 20

	gfMinColumns = 15
)

type googleFormMapper struct{}

// errAbandonedResponse marks rows skipped for an empty title.
var errAbandonedResponse = fmt.Errorf("empty talk title (abandoned form response)")

func (googleFormMapper) mapRow(row []string) (RawCandidate, error) {
	if len(row) < gfMinColumns {
		return RawCandidate{}, fmt.Errorf("expected at least %d columns, got %d", gfMinColumns, len(row))
	}

	if cleanCell(row[gfColTitle]) == "" {
		return RawCandidate{}, errAbandonedResponse
	}

	c := RawCandidate{
		SubmittedAtRaw: cleanCell(row[gfColTimestamp]),
		SpeakerEmail:   cleanCell(row[gfColEmail]),
		SpeakerName:    cleanCell(row[gfColName]),
		Title:          cleanCell(row[gfColTitle]),
		Abstract:       cleanCell(row[gfColAbstract]),
		TalkDetail:     cleanCell(row[gfColTalkDetail]),
		DurationRaw:    cleanCell(row[gfColDuration]),
		LanguageRaw:    cleanCell(row[gfColLanguage]),
		Bio:            cleanCell(row[gfColBio]),
		SpeakerHandle:  cleanCell(row[gfColSNS]),
		IconURL:        cleanCell(row[gfColIconURL]),
	}
	if c.SpeakerEmail == "" {
		return RawCandidate{}, fmt.Errorf("missing required field %q", "Email")
	}

	c.Notes = buildFormNotes(row)
	return c, nil
}

// buildFormNotes concatenates the auxiliary form answers into one notes
// block, one labeled line per answer, omitting empty ones.
func buildFormNotes(row []string) string {
	parts := []struct {
		label string
		col   int
	}{
		{"SNS", gfColSNS},
		{"Expertise", gfColExpertise},
		{"Speaking experience", gfColExperience},
		{"Location", gfColLocation},
		{"Company travel support", gfColTravelSupport},
		{"Notes", gfColExtraNotes},
	}

	var lines []string
	for _, p := range parts {
		if p.col >= len(row) {
			continue
		}
		if v := cleanCell(row[p.col]); v != "" {
			lines = append(lines, p.label+": "+v)
		}
	}
	return strings.Join(lines, "\n")
}
