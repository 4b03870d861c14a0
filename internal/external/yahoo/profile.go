package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// FetchProfile scrapes the company name from the Yahoo Finance quote page.
// Used as a fallback when the quoteSummary endpoint omits the name.
func (c *Client) FetchProfile(ctx context.Context, symbol string) (string, error) {
	fullURL := fmt.Sprintf("%s/%s/profile", c.cfg.ProfileBaseURL, url.PathEscape(symbol))

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return "", fmt.Errorf("profile request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse profile page failed: %w", err)
	}

	name := parseProfileName(doc, symbol)
	if name == "" {
		return "", fmt.Errorf("company name not found for %s", symbol)
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"name":   name,
	}).Debug("Fetched company profile")

	return name, nil
}

// parseProfileName extracts the company name from the quote page heading.
// The heading reads like "Apple Inc. (AAPL)"; the trailing symbol is
// stripped.
func parseProfileName(doc *goquery.Document, symbol string) string {
	heading := strings.TrimSpace(doc.Find("h1").First().Text())
	if heading == "" {
		return ""
	}

	suffix := fmt.Sprintf("(%s)", strings.ToUpper(symbol))
	if idx := strings.LastIndex(heading, suffix); idx > 0 {
		heading = heading[:idx]
	}

	return strings.TrimSpace(heading)
}
