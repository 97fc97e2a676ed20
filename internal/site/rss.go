package site

import (
	"encoding/xml"
	"time"

	"git.home.luguber.info/inful/projectsite/internal/foundation/errors"
)

type rssDocument struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link,omitempty"`
	GUID        string `xml:"guid,omitempty"`
	PubDate     string `xml:"pubDate,omitempty"`
	Description string `xml:"description"`
}

// renderFeed encodes the changelog entries as an RSS 2.0 document. Links are
// absolute when the project declares a homepage.
func renderFeed(bs *buildState, entries []changelogEntry) ([]byte, error) {
	base := bs.cfg.Project.Homepage
	doc := rssDocument{
		Version: "2.0",
		Channel: rssChannel{
			Title:       bs.cfg.Styles.Title + " releases",
			Link:        base + bs.href(changelogPage),
			Description: "Release notes for " + bs.cfg.Project.Name,
		},
	}
	for _, e := range entries {
		item := rssItem{Title: e.Title, Description: string(e.Body)}
		if e.Href != "" {
			item.Link = base + e.Href
			item.GUID = item.Link
		}
		if e.published != nil {
			item.PubDate = e.published.UTC().Format(time.RFC1123Z)
		}
		doc.Channel.Items = append(doc.Channel.Items, item)
	}
	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, errors.ComponentError("failed to encode changelog feed").WithCause(err).Build()
	}
	return append([]byte(xml.Header), append(out, '\n')...), nil
}
