package dartconnect

import (
	"bytes"
	"context"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/riskibarqy/dart-league-stats/internal/domain/team"
)

var venueMarkerRegex = regexp.MustCompile(`(?i)\b(location|address|phone)\s*:\s*`)

// FetchVenues scrapes the venue schedule page. Venue info is cosmetic, so any
// failure yields an empty map. Keys are team.NameKey values.
func (c *Client) FetchVenues(ctx context.Context) map[string]team.Venue {
	if c.venueScheduleURL == "" {
		return map[string]team.Venue{}
	}
	raw, err := c.getPage(ctx, c.venueScheduleURL)
	if err != nil {
		c.logger.WarnContext(ctx, "venue schedule fetch failed", "error", err)
		return map[string]team.Venue{}
	}
	venues, err := parseVenues(raw)
	if err != nil {
		c.logger.WarnContext(ctx, "venue schedule parse failed", "error", err)
		return map[string]team.Venue{}
	}
	return venues
}

func parseVenues(raw []byte) (map[string]team.Venue, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	doc.Find("script, style").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("p, div, li, tr, td, h1, h2, h3, h4, h5, h6").AppendHtml("\n")

	text := venueMarkerRegex.ReplaceAllStringFunc(doc.Find("body").Text(), func(marker string) string {
		return "\n" + marker
	})

	out := make(map[string]team.Venue, 16)
	var (
		teamName string
		current  *team.Venue
		last     string
	)
	flush := func() {
		if current != nil && teamName != "" && !current.Empty() {
			out[team.NameKey(teamName)] = *current
		}
		current = nil
		teamName = ""
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			continue
		}
		loc := venueMarkerRegex.FindStringSubmatchIndex(line)
		if loc == nil || loc[0] != 0 {
			last = line
			continue
		}
		value := strings.TrimSpace(line[loc[1]:])
		switch strings.ToLower(line[loc[2]:loc[3]]) {
		case "location":
			flush()
			teamName = last
			current = &team.Venue{Name: value}
		case "address":
			if current != nil {
				current.Address = value
			}
		case "phone":
			if current != nil {
				current.Phone = value
			}
			flush()
		}
	}
	flush()
	return out, nil
}
