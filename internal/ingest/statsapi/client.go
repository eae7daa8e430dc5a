// Package statsapi fetches player game logs and rosters from the league
// stats endpoint. The endpoint speaks a columnar resultSet format and
// rejects requests without a convincing browser fingerprint.
package statsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/chrisk320/Sports-Analytics-Hub/internal/fetch"
)

const DefaultBaseURL = "https://stats.nba.com/stats"

// MeasureType selects which stat table the game-log endpoint returns.
type MeasureType string

const (
	MeasureBase     MeasureType = "Base"
	MeasureAdvanced MeasureType = "Advanced"
)

// resultSets is the columnar envelope every stats endpoint responds with.
type resultSets struct {
	ResultSets []struct {
		Name    string          `json:"name"`
		Headers []string        `json:"headers"`
		RowSet  [][]interface{} `json:"rowSet"`
	} `json:"resultSets"`
}

// RowSet pairs column headers with raw rows for one result table.
type RowSet struct {
	Headers []string
	Rows    [][]interface{}
}

// Get returns the raw value for a header, nil when the column is absent.
func (rs *RowSet) Get(row []interface{}, header string) interface{} {
	for i, h := range rs.Headers {
		if h == header && i < len(row) {
			return row[i]
		}
	}
	return nil
}

// Client handles stats endpoint requests
type Client struct {
	baseURL    string
	httpClient *http.Client
	headers    map[string]string
}

// NewClient creates a stats endpoint client. The header set is fixed at
// construction; requests without it hang or come back 403.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		headers: map[string]string{
			"User-Agent":         "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
			"Accept":             "application/json, text/plain, */*",
			"Accept-Language":    "en-US,en;q=0.9",
			"Referer":            "https://www.nba.com/",
			"Origin":             "https://www.nba.com",
			"x-nba-stats-origin": "stats",
			"x-nba-stats-token":  "true",
		},
	}
}

// PlayerGameLogs fetches the league-wide game-log table for a season under
// the given measure type. fallbackShape switches to the nullable parameter
// set some endpoint revisions require.
func (c *Client) PlayerGameLogs(ctx context.Context, season string, measure MeasureType, fallbackShape bool) (*RowSet, error) {
	params := url.Values{
		"Season":      {season},
		"SeasonType":  {"Regular Season"},
		"MeasureType": {string(measure)},
	}
	if fallbackShape {
		params.Set("LeagueID", "00")
		params.Set("PerMode", "Totals")
	}

	return c.fetchResultSet(ctx, "playergamelogs", params, "PlayerGameLogs")
}

// CommonTeamRoster fetches one team's current roster.
func (c *Client) CommonTeamRoster(ctx context.Context, teamID, season string) (*RowSet, error) {
	params := url.Values{
		"TeamID": {teamID},
		"Season": {season},
	}
	return c.fetchResultSet(ctx, "commonteamroster", params, "CommonTeamRoster")
}

func (c *Client) fetchResultSet(ctx context.Context, endpoint string, params url.Values, setName string) (*RowSet, error) {
	reqURL := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", endpoint, err)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s response: %w", endpoint, err)
	}

	// A 400 means the parameter shape drifted, not that the server is down.
	if resp.StatusCode == http.StatusBadRequest {
		return nil, &fetch.ShapeMismatchError{
			Endpoint: endpoint,
			Err:      fmt.Errorf("status 400: %s", truncate(body, 200)),
		}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned status %d: %s", endpoint, resp.StatusCode, truncate(body, 200))
	}

	var envelope resultSets
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decoding %s response: %w", endpoint, err)
	}

	for _, set := range envelope.ResultSets {
		if set.Name == setName {
			log.Printf("[statsapi] ✓ Fetched %s: %d rows", setName, len(set.RowSet))
			return &RowSet{Headers: set.Headers, Rows: set.RowSet}, nil
		}
	}
	return nil, fmt.Errorf("%s response missing result set %q", endpoint, setName)
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n])
}
