package scraper

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var dateRegex = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`)

// mixStub is what the category listing gives us per mix before the
// page itself is fetched.
type mixStub struct {
	URL     string
	Date    string
	Artists []string
	Venue   string
}

// parseMixLink extracts the date, artist names and venue (if any) from
// a category listing link's href and title. ok is false for ignored
// URLs and titles that don't look like mix entries.
func parseMixLink(href, title string) (stub mixStub, ok bool) {
	if _, ignored := ignoredMixURLs[href]; ignored {
		return mixStub{}, false
	}

	title = strings.ReplaceAll(title, " - Essential Mix", "")
	title = strings.ReplaceAll(title, "(Essential Mix)", "")

	segments := strings.Split(title, " - ")
	if len(segments) < 2 {
		return mixStub{}, false
	}

	var date string
	if len(segments[0]) == 10 {
		date = segments[0]
	} else {
		// missing date for venue gig, pull it out of the full title
		if m := dateRegex.FindStringSubmatch(title); m != nil {
			date = m[1]
			segments[1] = strings.ReplaceAll(segments[1], fmt.Sprintf("(Essential Mix, %s)", date), "")
		}
	}

	artistVenue := strings.SplitN(segments[1], " @ ", 2)

	var artists []string
	for _, a := range strings.Split(artistVenue[0], ",") {
		a = strings.TrimSpace(a)
		if a != "" {
			artists = append(artists, a)
		}
	}

	venue := ""
	if len(artistVenue) > 1 {
		venue = strings.TrimSpace(artistVenue[1])
	}

	return mixStub{
		URL:     href,
		Date:    date,
		Artists: artists,
		Venue:   venue,
	}, true
}

type anchor struct {
	href  string
	title string
}

// categoryMixLinks collects the mix anchors inside the element with
// id="catMixesList".
func categoryMixLinks(doc *html.Node) []anchor {
	list := findByID(doc, "catMixesList")
	if list == nil {
		return nil
	}

	var anchors []anchor
	walk(list, func(n *html.Node) {
		if n.Type != html.ElementNode || n.Data != "a" {
			return
		}
		href := attr(n, "href")
		if href == "" {
			return
		}
		anchors = append(anchors, anchor{href: href, title: attr(n, "title")})
	})
	return anchors
}

// nextPageLink returns the href of the "next" link inside the
// listPagination block, or "" on the last page.
func nextPageLink(doc *html.Node) string {
	pagination := findByClass(doc, "listPagination")
	if pagination == nil {
		return ""
	}

	next := ""
	walk(pagination, func(n *html.Node) {
		if next != "" || n.Type != html.ElementNode || n.Data != "a" {
			return
		}
		if strings.Contains(nodeText(n), "next") {
			next = attr(n, "href")
		}
	})
	return next
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func findByID(n *html.Node, id string) *html.Node {
	var found *html.Node
	walk(n, func(node *html.Node) {
		if found == nil && node.Type == html.ElementNode && attr(node, "id") == id {
			found = node
		}
	})
	return found
}

func findByClass(n *html.Node, class string) *html.Node {
	var found *html.Node
	walk(n, func(node *html.Node) {
		if found != nil || node.Type != html.ElementNode {
			return
		}
		for _, c := range strings.Fields(attr(node, "class")) {
			if c == class {
				found = node
				return
			}
		}
	})
	return found
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	walk(n, func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
	})
	return b.String()
}
