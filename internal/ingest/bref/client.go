// Package bref scrapes box scores from basketball-reference box score
// pages. A plain HTTP fetch with browser headers works most of the time;
// when the site serves its bot-block page, the client falls back to a
// headless browser render.
package bref

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
)

const (
	DefaultBaseURL = "https://www.basketball-reference.com"

	UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
)

// Client fetches box score pages, preferring plain HTTP and falling back
// to headless Chrome when blocked.
type Client struct {
	baseURL    string
	httpClient *http.Client

	allocCtx context.Context
	cancel   context.CancelFunc
}

// NewClient creates a box score page client. The headless browser is
// allocated lazily on first blocked fetch.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Close releases the headless browser, if one was started.
func (c *Client) Close() {
	if c.cancel != nil {
		c.cancel()
	}
}

// FetchBoxScore fetches the box score page for a game. pageID is the
// site's game identifier, e.g. "202601050GSW".
func (c *Client) FetchBoxScore(ctx context.Context, pageID string) (*goquery.Document, error) {
	url := fmt.Sprintf("%s/boxscores/%s.html", c.baseURL, pageID)

	html, err := c.fetchHTTP(ctx, url)
	if err == nil && !looksBlocked(html) {
		return parseDocument(html)
	}
	if err != nil {
		log.Printf("[bref] ⚠️ Plain fetch of %s failed (%v), falling back to headless browser", pageID, err)
	} else {
		log.Printf("[bref] ⚠️ Plain fetch of %s blocked, falling back to headless browser", pageID)
	}

	html, err = c.fetchHeadless(ctx, url)
	if err != nil {
		return nil, err
	}
	return parseDocument(html)
}

// FetchDailyIndex fetches the scoreboard page for a date and returns the
// box score page ids played that day.
func (c *Client) FetchDailyIndex(ctx context.Context, date time.Time) ([]string, error) {
	url := fmt.Sprintf("%s/boxscores/?month=%d&day=%d&year=%d",
		c.baseURL, int(date.Month()), date.Day(), date.Year())

	html, err := c.fetchHTTP(ctx, url)
	if err != nil || looksBlocked(html) {
		if err != nil {
			log.Printf("[bref] ⚠️ Plain fetch of daily index failed (%v), falling back to headless browser", err)
		} else {
			log.Printf("[bref] ⚠️ Plain fetch of daily index blocked, falling back to headless browser")
		}
		html, err = c.fetchHeadless(ctx, url)
		if err != nil {
			return nil, err
		}
	}

	doc, err := parseDocument(html)
	if err != nil {
		return nil, err
	}
	return ParseDailyIndex(doc), nil
}

func (c *Client) fetchHTTP(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests {
		return "", fmt.Errorf("blocked with status %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}

	return string(body), nil
}

func (c *Client) fetchHeadless(ctx context.Context, url string) (string, error) {
	if c.allocCtx == nil {
		opts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent(UserAgent),
		)
		c.allocCtx, c.cancel = chromedp.NewExecAllocator(context.Background(), opts...)
	}

	browserCtx, cancel := chromedp.NewContext(c.allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, 30*time.Second)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitVisible(`body`, chromedp.ByQuery),
		chromedp.Sleep(1*time.Second), // Allow JS to render
		chromedp.OuterHTML(`html`, &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("chromedp error: %w", err)
	}
	if html == "" {
		return "", fmt.Errorf("empty HTML content returned")
	}

	return html, nil
}

// looksBlocked detects the site's rate-limit interstitial, which comes
// back with status 200.
func looksBlocked(html string) bool {
	return strings.Contains(html, "Rate Limited Request") ||
		strings.Contains(html, "Please verify you are a human")
}

func parseDocument(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}
