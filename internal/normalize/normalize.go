// Package normalize converts raw source fields into the canonical stat
// schema. Every function is pure and total: malformed input degrades to a
// sentinel (zero or absent), never a panic or an error.
package normalize

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// PercentEncoding identifies how a source encodes a percentage field.
// Sources are inconsistent: some report ".410" (decimal fraction), some
// "41.0" (whole number). The encoding is fixed per field identity; values
// near the boundary cannot be told apart by magnitude.
type PercentEncoding int

const (
	// EncDecimalFraction means ".410" reads as 41.0%.
	EncDecimalFraction PercentEncoding = iota
	// EncWholeNumber means "41.0" reads as 41.0%.
	EncWholeNumber
)

// MinutesFromClock parses minutes played from either "MM:SS" clock format
// or a bare numeric value. The second return is false when the field is
// absent or unparseable — a DNP is not the same as zero minutes played.
func MinutesFromClock(raw any) (float64, bool) {
	s, ok := rawString(raw)
	if !ok {
		return 0, false
	}

	if strings.Contains(s, ":") {
		parts := strings.SplitN(s, ":", 2)
		mins, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
		secs, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err1 != nil || err2 != nil {
			return 0, false
		}
		return float64(mins) + float64(secs)/60.0, true
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// IntStat coerces a raw counting stat to a non-negative integer. Missing or
// unparseable values map to 0, the source's "no data" sentinel for counting
// stats (documented trade-off: "played, recorded zero" and "stat
// unavailable" are indistinguishable downstream).
func IntStat(raw any) int {
	s, ok := rawString(raw)
	if !ok {
		return 0
	}

	// Sources sometimes encode counts as floats ("3.0").
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	n := int(f)
	if n < 0 {
		return 0
	}
	return n
}

// Percentage parses a percentage field under the given encoding and always
// emits the whole-number convention rounded to one decimal (56.7 = 56.7%).
// The second return is false for absent/unparseable input.
func Percentage(raw any, enc PercentEncoding) (float64, bool) {
	s, ok := rawString(raw)
	if !ok {
		return 0, false
	}

	// Reference-site tables print fractions with no leading zero (".410").
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}

	if enc == EncDecimalFraction {
		f *= 100
	}
	return round1(f), true
}

// Rating coerces a raw rating to a real number. Missing or unparseable
// values map to 0.0, which the ingestion step treats as "no advanced data
// for this row".
func Rating(raw any) float64 {
	s, ok := rawString(raw)
	if !ok {
		return 0.0
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0.0
	}
	return f
}

// NetRating derives net rating from offensive and defensive ratings. It is
// always recomputed here; the source's own net rating column is ignored.
// Zero inputs carry the "no data" sentinel through.
func NetRating(off, def float64) float64 {
	if off == 0 || def == 0 {
		return 0.0
	}
	return round1(off - def)
}

// gameDateLayouts are tried in order. Sources disagree on date encoding:
// the stats API reports "Jan 5, 2026" or an ISO datetime at midnight, the
// schedule feed reports RFC3339 timestamps.
var gameDateLayouts = []string{
	"Jan 2, 2006",
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// GameDate parses a source-reported date string, trying each known layout
// in a fixed order. The second return is false only when none parse.
func GameDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	// ISO datetimes at midnight are just dates with extra decoration.
	trimmed := strings.TrimSuffix(strings.TrimSuffix(s, "Z"), "T00:00:00")
	trimmed = strings.TrimSpace(trimmed)

	for _, candidate := range []string{trimmed, s} {
		for _, layout := range gameDateLayouts {
			if t, err := time.Parse(layout, candidate); err == nil {
				return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
			}
		}
	}

	return time.Time{}, false
}

// nameSuffixes are stripped in this order; longer dotted forms first so
// " jr." is removed before " jr" could leave a trailing dot.
var nameSuffixes = []string{" jr.", " jr", " sr.", " sr", " iii", " ii", " iv"}

// PlayerName normalizes a source spelling for identity matching: lower-case,
// diacritics stripped (Dončić → doncic), generational suffixes removed.
// Never used for display.
func PlayerName(raw string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, raw)
	if err != nil {
		stripped = raw
	}

	name := strings.ToLower(stripped)
	for _, suffix := range nameSuffixes {
		if strings.HasSuffix(name, suffix) {
			name = strings.TrimSuffix(name, suffix)
			break
		}
	}

	return strings.TrimSpace(name)
}

// Opponent extracts the opponent code from a matchup string like
// "GSW vs. LAL" or "GSW @ BOS" (last token).
func Opponent(matchup string) string {
	parts := strings.Fields(matchup)
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}

// SeasonString formats the season token for a game date: seasons start in
// October, so an October-or-later date belongs to the season ending the
// following year ("2025-26").
func SeasonString(d time.Time) string {
	endYear := d.Year()
	if d.Month() >= time.October {
		endYear++
	}
	startYear := endYear - 1
	return fmt.Sprintf("%d-%02d", startYear, endYear%100)
}

// rawString coerces a loosely-typed source scalar to a trimmed string.
// Returns false for nil or blank values.
func rawString(raw any) (string, bool) {
	switch v := raw.(type) {
	case nil:
		return "", false
	case string:
		s := strings.TrimSpace(v)
		return s, s != ""
	case float64:
		if math.IsNaN(v) {
			return "", false
		}
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	default:
		return "", false
	}
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
