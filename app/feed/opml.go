package feed

import (
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/cases"
)

var ErrNoFeedSources = errors.New("no RSS feed sources found in OPML file")

type opmlDocument struct {
	Body opmlBody `xml:"body"`
}

type opmlBody struct {
	Outlines []opmlOutline `xml:"outline"`
}

type opmlOutline struct {
	Text     string        `xml:"text,attr"`
	Title    string        `xml:"title,attr"`
	Type     string        `xml:"type,attr"`
	XMLURL   string        `xml:"xmlUrl,attr"`
	Children []opmlOutline `xml:"outline"`
}

func (o opmlOutline) label() string {
	if text := strings.TrimSpace(o.Text); text != "" {
		return text
	}
	return strings.TrimSpace(o.Title)
}

// ReadSources loads the OPML file at path and returns its feed sources and categories.
func ReadSources(path string) ([]Source, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read OPML file: %w", err)
	}
	return ParseSources(data)
}

// ParseSources walks a two-level outline: top-level outlines are categories,
// their children are feeds. Categories are deduplicated case-insensitively
// keeping the first spelling.
func ParseSources(data []byte) ([]Source, []string, error) {
	var doc opmlDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("failed to parse OPML: %w", err)
	}

	fold := cases.Fold()
	seen := make(map[string]struct{})
	categories := []string{}
	sources := []Source{}

	for _, categoryOutline := range doc.Body.Outlines {
		category := categoryOutline.label()
		if category == "" {
			continue
		}

		key := fold.String(category)
		if _, ok := seen[key]; !ok {
			seen[key] = struct{}{}
			categories = append(categories, category)
		}

		for _, feedOutline := range categoryOutline.Children {
			url := strings.TrimSpace(feedOutline.XMLURL)
			if url == "" {
				continue
			}

			name := feedOutline.label()
			if name == "" {
				name = url
			}
			sources = append(sources, Source{
				Category: category,
				Name:     name,
				URL:      url,
			})
		}
	}

	if len(sources) == 0 {
		return nil, nil, ErrNoFeedSources
	}

	return sources, categories, nil
}
