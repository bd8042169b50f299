package bestiary

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// ParseTitles extracts the member page titles from a category page. Members
// live in list items under elements carrying the mw-category class; the
// anchor text is the title.
func ParseTitles(r io.Reader) ([]string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse category page: %w", err)
	}

	var titles []string
	var walk func(n *html.Node, inCategory bool)
	walk = func(n *html.Node, inCategory bool) {
		if n.Type == html.ElementNode && hasClass(n, "mw-category") {
			inCategory = true
		}
		if inCategory && isElement(n, "li") {
			if title := strings.TrimSpace(textContent(n)); title != "" {
				titles = append(titles, title)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, inCategory)
		}
	}
	walk(doc, false)
	return titles, nil
}

// NextPageHref returns the href of the pagination link whose anchor text
// matches label, or "" when the page is the last one.
func NextPageHref(r io.Reader, label string) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("parse category page: %w", err)
	}

	for node := range descendants(doc) {
		if !isElement(node, "a") {
			continue
		}
		if strings.TrimSpace(textContent(node)) != label {
			continue
		}
		for _, attr := range node.Attr {
			if attr.Key == "href" {
				return attr.Val, nil
			}
		}
	}
	return "", nil
}

// descendants yields node and every node below it in document order.
func descendants(node *html.Node) func(yield func(*html.Node) bool) {
	return func(yield func(*html.Node) bool) {
		var walk func(*html.Node) bool
		walk = func(n *html.Node) bool {
			if !yield(n) {
				return false
			}
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if !walk(c) {
					return false
				}
			}
			return true
		}
		walk(node)
	}
}

func isElement(n *html.Node, tag string) bool {
	return n.Type == html.ElementNode && n.Data == tag
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	for node := range descendants(n) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
	}
	return sb.String()
}
