package bref

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/chrisk320/Sports-Analytics-Hub/internal/normalize"
	"github.com/chrisk320/Sports-Analytics-Hub/internal/reconcile"
	"github.com/chrisk320/Sports-Analytics-Hub/internal/store"
)

// teamAbbrMap translates the site's team codes to the canonical ones the
// rest of the pipeline uses.
var teamAbbrMap = map[string]string{
	"BRK": "BKN",
	"PHO": "PHX",
	"CHO": "CHA",
}

// CanonicalTeamAbbr maps a site team code to the canonical abbreviation.
func CanonicalTeamAbbr(abbr string) string {
	if canon, ok := teamAbbrMap[abbr]; ok {
		return canon
	}
	return abbr
}

// skipRowLabels marks section header and summary rows inside the stat
// tables.
var skipRowLabels = []string{"Starters", "Reserves", "Team Totals"}

// inactiveReasons marks rows for players who dressed but never appeared;
// the row holds a reason string instead of stat cells.
var inactiveReasons = []string{"Did Not", "Not With", "Inactive"}

// TeamsInDocument lists the site team codes present in a box score page,
// read from the basic stat table ids.
func TeamsInDocument(doc *goquery.Document) []string {
	var teams []string
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		id, _ := table.Attr("id")
		if strings.HasPrefix(id, "box-") && strings.HasSuffix(id, "-game-basic") {
			teams = append(teams, strings.TrimSuffix(strings.TrimPrefix(id, "box-"), "-game-basic"))
		}
	})
	return teams
}

// ParseGame extracts performance records for both teams of a box score
// page. The team codes come from the page's own table ids; gameDateRaw is
// passed through to each record.
func ParseGame(doc *goquery.Document, gameDateRaw string) ([]*reconcile.PerformanceRecord, error) {
	teams := TeamsInDocument(doc)
	if len(teams) != 2 {
		return nil, fmt.Errorf("expected 2 team tables in box score page, found %d", len(teams))
	}

	var records []*reconcile.PerformanceRecord
	records = append(records, parseTeam(doc, teams[0], teams[1], gameDateRaw)...)
	records = append(records, parseTeam(doc, teams[1], teams[0], gameDateRaw)...)
	return records, nil
}

// ParseDailyIndex extracts box score page ids from a daily scoreboard
// page, e.g. "202601050GSW" from a link to /boxscores/202601050GSW.html.
func ParseDailyIndex(doc *goquery.Document) []string {
	seen := make(map[string]bool)
	var ids []string
	doc.Find(`a[href]`).Each(func(_ int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		if !strings.HasPrefix(href, "/boxscores/") || !strings.HasSuffix(href, ".html") {
			return
		}
		id := strings.TrimSuffix(strings.TrimPrefix(href, "/boxscores/"), ".html")
		// Real page ids are a date plus home team code; skip index links.
		if len(id) != 12 || seen[id] {
			return
		}
		seen[id] = true
		ids = append(ids, id)
	})
	return ids
}

func parseTeam(doc *goquery.Document, teamAbbr, oppAbbr, gameDateRaw string) []*reconcile.PerformanceRecord {
	var records []*reconcile.PerformanceRecord
	byName := make(map[string]*reconcile.PerformanceRecord)

	basicSel := fmt.Sprintf("table#box-%s-game-basic tbody tr", teamAbbr)
	doc.Find(basicSel).Each(func(_ int, row *goquery.Selection) {
		name, ok := playerName(row)
		if !ok {
			return
		}

		mins, minsOK := normalize.MinutesFromClock(cell(row, "mp"))
		rec := &reconcile.PerformanceRecord{
			PlayerName:   name,
			Team:         CanonicalTeamAbbr(teamAbbr),
			Opponent:     CanonicalTeamAbbr(oppAbbr),
			GameDateRaw:  gameDateRaw,
			Minutes:      mins,
			MinutesKnown: minsOK,
			Points:       normalize.IntStat(cell(row, "pts")),
			Rebounds:     normalize.IntStat(cell(row, "trb")),
			Assists:      normalize.IntStat(cell(row, "ast")),
			Steals:       normalize.IntStat(cell(row, "stl")),
			Blocks:       normalize.IntStat(cell(row, "blk")),
		}
		records = append(records, rec)
		byName[name] = rec
	})

	advSel := fmt.Sprintf("table#box-%s-game-advanced tbody tr", teamAbbr)
	doc.Find(advSel).Each(func(_ int, row *goquery.Selection) {
		name, ok := playerName(row)
		if !ok {
			return
		}
		rec, ok := byName[name]
		if !ok {
			return
		}

		// The site prints shooting percentages as decimal fractions but
		// usage as a whole number.
		ts, tsOK := normalize.Percentage(cell(row, "ts_pct"), normalize.EncDecimalFraction)
		efg, efgOK := normalize.Percentage(cell(row, "efg_pct"), normalize.EncDecimalFraction)
		usg, usgOK := normalize.Percentage(cell(row, "usg_pct"), normalize.EncWholeNumber)

		rec.Advanced = &reconcile.AdvancedMetrics{
			OffensiveRating: normalize.Rating(cell(row, "off_rtg")),
			DefensiveRating: normalize.Rating(cell(row, "def_rtg")),
			TrueShooting:    store.NullFloat(ts, tsOK),
			EffectiveFG:     store.NullFloat(efg, efgOK),
			Usage:           store.NullFloat(usg, usgOK),
		}
	})

	return records
}

// playerName extracts the player label from a table row, filtering out
// header, summary, and inactive rows.
func playerName(row *goquery.Selection) (string, bool) {
	name := strings.TrimSpace(row.Find(`th[data-stat="player"]`).First().Text())
	if name == "" {
		return "", false
	}
	for _, label := range skipRowLabels {
		if name == label {
			return "", false
		}
	}

	reason := strings.TrimSpace(row.Find(`td[data-stat="reason"]`).First().Text())
	for _, prefix := range inactiveReasons {
		if strings.HasPrefix(reason, prefix) {
			return "", false
		}
	}

	return name, true
}

func cell(row *goquery.Selection, stat string) string {
	return strings.TrimSpace(row.Find(fmt.Sprintf(`td[data-stat=%q]`, stat)).First().Text())
}
