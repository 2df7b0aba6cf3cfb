package instagram

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"

	"github.com/bondery/bondery/internal/entities"
	"github.com/bondery/bondery/internal/importers"
)

// parseHTMLList extracts connection records from the HTML export variant.
// Each account appears as an anchor linking to its Instagram profile with
// the handle as the link text.
func parseHTMLList(data []byte) ([]importers.RawConnectionRecord, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, &importers.UnsupportedFormatError{Reason: "malformed HTML export"}
	}

	var records []importers.RawConnectionRecord
	var walk func(node *html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && node.Data == "a" {
			if record, ok := recordFromAnchor(node); ok {
				records = append(records, record)
			}
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	return records, nil
}

func recordFromAnchor(node *html.Node) (importers.RawConnectionRecord, bool) {
	var href string
	for _, attr := range node.Attr {
		if attr.Key == "href" {
			href = attr.Val
			break
		}
	}
	if !strings.Contains(href, "instagram.com/") {
		return importers.RawConnectionRecord{}, false
	}

	handle := handleFromHref(href)
	if handle == "" {
		return importers.RawConnectionRecord{}, false
	}

	return importers.RawConnectionRecord{
		Platform:   entities.PlatformInstagram,
		Handle:     handle,
		ProfileURL: href,
	}, true
}

func handleFromHref(href string) string {
	idx := strings.Index(href, "instagram.com/")
	path := href[idx+len("instagram.com/"):]
	path = strings.Trim(path, "/")
	if slash := strings.IndexByte(path, '/'); slash >= 0 {
		path = path[:slash]
	}
	if q := strings.IndexByte(path, '?'); q >= 0 {
		path = path[:q]
	}
	// Links to app pages, not profiles
	switch path {
	case "", "accounts", "explore", "direct":
		return ""
	}
	return path
}
