package ranking

import (
	"bytes"
	"cmp"
	"encoding/xml"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/lysyi3m/k-rank/app/cfg"
)

// Channel describes the snapshot an RSS document is generated from.
type Channel struct {
	Domain    Domain
	Category  string
	Date      string
	UpdatedAt time.Time
}

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Headlines converts ranked items into their domain-independent view.
func Headlines[T Item](items []T) []Headline {
	headlines := make([]Headline, len(items))
	for i, item := range items {
		headlines[i] = item.Headline()
	}
	return headlines
}

func (g *Generator) Run(channel Channel, headlines []Headline) (string, error) {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n  <channel>\n")

	title := fmt.Sprintf("K-Rank %s", domainTitle(channel.Domain))
	if !IsWildcard(channel.Category) {
		title = fmt.Sprintf("%s: %s", title, channel.Category)
	}
	g.writeElement(&buf, "title", title, 4)

	baseURL := baseURL()
	g.writeElement(&buf, "link", fmt.Sprintf("%s/rankings/%s", baseURL, channel.Domain), 4)

	description := fmt.Sprintf("Daily %s leaderboard in Korea", channel.Domain)
	if channel.Date != "" {
		description = fmt.Sprintf("%s for %s", description, channel.Date)
	}
	g.writeElement(&buf, "description", description, 4)

	selfLink := fmt.Sprintf("%s/feeds/%s", baseURL, channel.Domain)
	if !IsWildcard(channel.Category) {
		selfLink += "?category=" + channel.Category
	}
	buf.WriteString(fmt.Sprintf("    <atom:link href=\"%s\" rel=\"self\" type=\"application/rss+xml\" />\n",
		html.EscapeString(selfLink)))

	lastBuildDate := cmp.Or(channel.UpdatedAt, time.Now().In(time.Local))
	g.writeElement(&buf, "lastBuildDate", lastBuildDate.Format(time.RFC1123Z), 4)
	g.writeElement(&buf, "generator", fmt.Sprintf("K-Rank/%s", cfg.Get().Version), 4)

	for _, h := range headlines {
		g.writeItem(&buf, channel, h, lastBuildDate)
	}

	buf.WriteString("  </channel>\n</rss>")

	return buf.String(), nil
}

func (g *Generator) writeItem(buf *bytes.Buffer, channel Channel, h Headline, published time.Time) {
	buf.WriteString("    <item>\n")

	guid := fmt.Sprintf("k-rank:%s:%s:%d", channel.Domain, cmp.Or(channel.Date, "latest"), h.Rank)
	buf.WriteString("      <guid isPermaLink=\"false\">")
	xml.EscapeText(buf, []byte(guid))
	buf.WriteString("</guid>\n")

	g.writeElement(buf, "title", fmt.Sprintf("#%d %s", h.Rank, h.Title), 6)

	if h.Link != "" {
		g.writeElement(buf, "link", h.Link, 6)
	}

	parts := []string{}
	if h.Subtitle != "" {
		parts = append(parts, h.Subtitle)
	}
	parts = append(parts, h.Stat, h.Change())
	g.writeElement(buf, "description", strings.Join(parts, " | "), 6)

	g.writeElement(buf, "pubDate", published.Format(time.RFC1123Z), 6)
	g.writeElement(buf, "category", string(channel.Domain), 6)

	buf.WriteString("    </item>\n")
}

func (g *Generator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}

func baseURL() string {
	if cfg.Get().BaseUrl != "" {
		return strings.TrimSuffix(cfg.Get().BaseUrl, "/")
	}
	return fmt.Sprintf("http://localhost:%s", cfg.Get().Port)
}

func domainTitle(domain Domain) string {
	switch domain {
	case DomainBeauty:
		return "Beauty"
	case DomainMedia:
		return "Media"
	case DomainRestaurants:
		return "Restaurants"
	case DomainPlace:
		return "Places"
	case DomainFood:
		return "Food"
	default:
		return string(domain)
	}
}
