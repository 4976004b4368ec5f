package importer

// normalize.go maps free-text duration and language strings onto the
// closed enumerations. Upstream humans produce inconsistent labels
// ("Lightning Talk (5min)", "20 minutes", "keynote"), so normalization
// never fails: unmatched input falls back to a safe default, and the
// defaulted flag lets the orchestrator surface that as a row warning
// instead of silent data drift.

import "strings"

// TalkDuration is the closed duration enumeration for a proposal.
type TalkDuration string

const (
	DurationRegular   TalkDuration = "regular"
	DurationLightning TalkDuration = "lightning"
	DurationInvited   TalkDuration = "invited"
	DurationWorkshop  TalkDuration = "workshop"
)

// WorkshopLanguage is the closed language enumeration for workshops.
type WorkshopLanguage string

const (
	LanguageEnglish   WorkshopLanguage = "english"
	LanguageJapanese  WorkshopLanguage = "japanese"
	LanguageBilingual WorkshopLanguage = "bilingual"
	LanguageOther     WorkshopLanguage = "other"
)

// NormalizeDuration resolves raw to a TalkDuration. The second return is
// true when no rule matched and the documented default (regular) was
// used. Normalizing an already-normalized value returns the same value.
func NormalizeDuration(raw string) (TalkDuration, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return DurationRegular, true
	}

	switch {
	case strings.Contains(s, "workshop"), strings.Contains(s, "hands-on"):
		return DurationWorkshop, false
	case strings.Contains(s, "keynote"), strings.Contains(s, "invited"):
		return DurationInvited, false
	case strings.Contains(s, "lightning"), s == "lt":
		return DurationLightning, false
	case strings.Contains(s, "regular"), strings.Contains(s, "standard"):
		return DurationRegular, false
	}

	// Fall back to the first number in the string: 5 means lightning,
	// 20 means regular.
	switch firstNumber(s) {
	case "5":
		return DurationLightning, false
	case "20":
		return DurationRegular, false
	}

	return DurationRegular, true
}

// NormalizeLanguage resolves raw to a WorkshopLanguage, defaulting to
// other when unmatched.
func NormalizeLanguage(raw string) (WorkshopLanguage, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return LanguageOther, true
	}

	switch {
	case strings.Contains(s, "bilingual"), strings.Contains(s, "both"):
		return LanguageBilingual, false
	case strings.Contains(s, "english"), s == "en", strings.Contains(s, "英語"):
		return LanguageEnglish, false
	case strings.Contains(s, "japanese"), s == "ja", strings.Contains(s, "日本語"):
		return LanguageJapanese, false
	case s == "other":
		return LanguageOther, false
	}

	return LanguageOther, true
}

// firstNumber returns the first run of ASCII digits in s, or "".
func firstNumber(s string) string {
	start := -1
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			return s[start:i]
		}
	}
	if start >= 0 {
		return s[start:]
	}
	return ""
}

// normalize produces the immutable NormalizedCandidate for one raw
// candidate.
func normalize(raw RawCandidate) NormalizedCandidate {
	dur, durDefaulted := NormalizeDuration(raw.DurationRaw)
	lang, langDefaulted := NormalizeLanguage(raw.LanguageRaw)
	return NormalizedCandidate{
		RawCandidate:      raw,
		Duration:          dur,
		DurationDefaulted: durDefaulted,
		Language:          lang,
		LanguageDefaulted: langDefaulted,
	}
}
