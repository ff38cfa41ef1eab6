package feed

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/umputun/marketscope/pkg/domain"
)

// Generator creates RSS digests of analyzed articles and OPML of sources
type Generator struct {
	baseURL string
}

// NewGenerator creates a new feed generator
func NewGenerator(baseURL string) *Generator {
	return &Generator{
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// GenerateRSS creates an RSS 2.0 digest of analyzed articles. Bucket is the sector bucket key
// used in the self link, label its human name; both empty mean all sectors.
func (g *Generator) GenerateRSS(articles []domain.Article, bucket, label string, minScore int) (string, error) {
	if label == "" {
		label = "All Sectors"
	}
	title := fmt.Sprintf("Marketscope - %s (Impact ≥ %d)", label, minScore)

	selfLink := g.baseURL + "/rss"
	if bucket != "" {
		selfLink = fmt.Sprintf("%s/rss/%s", g.baseURL, bucket)
	}

	rssItems := make([]*RSSItem, 0, len(articles))
	for _, a := range articles {
		rssItems = append(rssItems, g.convertToRSSItem(a))
	}

	feed := &RSS{
		Version: "2.0",
		Atom:    "http://www.w3.org/2005/Atom",
		Channel: &RSSChannel{
			Title:         title,
			Link:          g.baseURL + "/",
			Description:   fmt.Sprintf("Market-moving news with impact score ≥ %d", minScore),
			AtomLink:      &AtomLink{Href: selfLink, Rel: "self", Type: "application/rss+xml"},
			LastBuildDate: time.Now().Format(time.RFC1123Z),
			Items:         rssItems,
		},
	}

	output, err := xml.MarshalIndent(feed, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal RSS: %w", err)
	}

	return xml.Header + string(output), nil
}

// convertToRSSItem converts an analyzed article to an RSS item
func (g *Generator) convertToRSSItem(a domain.Article) *RSSItem {
	desc := fmt.Sprintf("Impact: %s, %s, %d/100 - %s", a.ImpactLevel, a.MarketDirection, a.ImpactScore, a.ImpactSummary)
	if len(a.AffectedSectors) > 0 {
		desc += fmt.Sprintf("\nSectors: %s", strings.Join(a.AffectedSectors, ", "))
	}
	if a.Summary != "" {
		desc += "\n\n" + a.Summary
	}

	return &RSSItem{
		Title:       fmt.Sprintf("[%d] %s", a.ImpactScore, a.Title),
		Link:        a.URL,
		GUID:        a.URL,
		Description: desc,
		PubDate:     a.PublishedAt.Format(time.RFC1123Z),
		Categories:  a.AffectedSectors,
	}
}

// GenerateOPML creates an OPML file with the source subscriptions
func (g *Generator) GenerateOPML(sources []Source) (string, error) {
	type outline struct {
		XMLName xml.Name `xml:"outline"`
		Text    string   `xml:"text,attr"`
		Title   string   `xml:"title,attr"`
		Type    string   `xml:"type,attr"`
		XMLUrl  string   `xml:"xmlUrl,attr"`
	}

	type body struct {
		XMLName  xml.Name  `xml:"body"`
		Outlines []outline `xml:"outline"`
	}

	type head struct {
		XMLName     xml.Name `xml:"head"`
		Title       string   `xml:"title"`
		DateCreated string   `xml:"dateCreated"`
	}

	type opml struct {
		XMLName xml.Name `xml:"opml"`
		Version string   `xml:"version,attr"`
		Head    head     `xml:"head"`
		Body    body     `xml:"body"`
	}

	outlines := make([]outline, 0, len(sources))
	for _, s := range sources {
		outlines = append(outlines, outline{Text: s.Name, Title: s.Name, Type: "rss", XMLUrl: s.URL})
	}

	doc := opml{
		Version: "2.0",
		Head: head{
			Title:       "Marketscope Feed Sources",
			DateCreated: time.Now().Format(time.RFC1123Z),
		},
		Body: body{Outlines: outlines},
	}

	output, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal OPML: %w", err)
	}

	return xml.Header + string(output), nil
}
