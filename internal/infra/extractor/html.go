package extractor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// uploadURL stands in for the page URL readability uses to resolve relative links.
var uploadURL = &url.URL{Scheme: "file", Path: "/upload.html"}

// HTML extracts the main readable text of an HTML document.
//
// The Readability algorithm is tried first. When it finds no article text the
// whole <body> text is used instead, with scripts and styles removed and
// whitespace collapsed.
type HTML struct{}

// NewHTML creates an HTML extractor.
func NewHTML() *HTML {
	return &HTML{}
}

// Extract returns the readable text of the HTML document in data.
func (h *HTML) Extract(_ context.Context, data []byte) (string, error) {
	article, err := readability.FromReader(bytes.NewReader(data), uploadURL)
	if err == nil {
		if t := strings.TrimSpace(article.TextContent); t != "" {
			return t, nil
		}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("parse HTML: %w", err)
	}
	doc.Find("script, style, noscript, template").Remove()

	t := collapseWhitespace(doc.Find("body").Text())
	if t == "" {
		return "", errors.New("no readable content found")
	}
	return t, nil
}

// collapseWhitespace joins the whitespace-separated fields of s with single spaces.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
