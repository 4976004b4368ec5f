package importer

// papercall_csv.go maps the 21-column PaperCall CSV export. PaperCall
// carries no native proposal ID, so one is synthesized from email and
// title after mapping. Columns the pipeline has no use for (shirt_size,
// rating, state, ...) are simply left unbound.

var standardBindings = []columnBinding{
	{Column: "name", Assign: func(c *RawCandidate, v string) { c.SpeakerName = v }},
	{Column: "email", Required: true, Assign: func(c *RawCandidate, v string) { c.SpeakerEmail = v }},
	{Column: "avatar", Assign: func(c *RawCandidate, v string) { c.IconURL = v }},
	{Column: "bio", Assign: func(c *RawCandidate, v string) { c.Bio = v }},
	{Column: "twitter", Assign: func(c *RawCandidate, v string) { c.SpeakerHandle = v }},
	{Column: "talk_format", Assign: func(c *RawCandidate, v string) { c.DurationRaw = v }},
	{Column: "title", Required: true, Assign: func(c *RawCandidate, v string) { c.Title = v }},
	{Column: "abstract", Assign: func(c *RawCandidate, v string) { c.Abstract = v }},
	{Column: "description", Assign: func(c *RawCandidate, v string) { c.TalkDetail = v }},
	{Column: "notes", Assign: func(c *RawCandidate, v string) { c.Notes = v }},
	{Column: "created_at", Assign: func(c *RawCandidate, v string) { c.SubmittedAtRaw = v }},
}

type standardCSVMapper struct {
	inner *rowMapper
}

func newStandardCSVMapper(header []string) (*standardCSVMapper, error) {
	inner, err := newRowMapper(standardBindings, header)
	if err != nil {
		return nil, err
	}
	return &standardCSVMapper{inner: inner}, nil
}

func (m *standardCSVMapper) mapRow(row []string) (RawCandidate, error) {
	c, err := m.inner.mapRow(row)
	if err != nil {
		return RawCandidate{}, err
	}
	c.SourceID = synthesizeSourceID(c.SpeakerEmail, c.Title)
	return c, nil
}
