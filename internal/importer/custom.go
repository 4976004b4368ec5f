package importer

// custom.go maps the in-house 13-column CSV export. This is the only
// format that carries a native proposal ID, so its SourceID is used
// verbatim for deduplication.

var customBindings = []columnBinding{
	{Column: "ID", Assign: func(c *RawCandidate, v string) { c.SourceID = v }},
	{Column: "Title", Required: true, Assign: func(c *RawCandidate, v string) { c.Title = v }},
	{Column: "Abstract", Assign: func(c *RawCandidate, v string) { c.Abstract = v }},
	{Column: "Talk Details", Assign: func(c *RawCandidate, v string) { c.TalkDetail = v }},
	{Column: "Duration", Assign: func(c *RawCandidate, v string) { c.DurationRaw = v }},
	{Column: "Speaker Name", Assign: func(c *RawCandidate, v string) { c.SpeakerName = v }},
	{Column: "Speaker Email", Required: true, Assign: func(c *RawCandidate, v string) { c.SpeakerEmail = v }},
	{Column: "Speaker Username", Assign: func(c *RawCandidate, v string) { c.SpeakerHandle = v }},
	{Column: "Bio", Assign: func(c *RawCandidate, v string) { c.Bio = v }},
	{Column: "Icon URL", Assign: func(c *RawCandidate, v string) { c.IconURL = v }},
	{Column: "Notes", Assign: func(c *RawCandidate, v string) { c.Notes = v }},
	{Column: "Conference", Assign: func(c *RawCandidate, v string) { c.ConferenceLabel = v }},
	{Column: "Submitted At", Assign: func(c *RawCandidate, v string) { c.SubmittedAtRaw = v }},
}

func newCustomCSVMapper(header []string) (*rowMapper, error) {
	return newRowMapper(customBindings, header)
}
