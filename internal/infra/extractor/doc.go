// Package extractor provides the document-to-text converters registered with
// the extraction use case: UTF-8 plain text, PDF (github.com/ledongthuc/pdf)
// and HTML (go-shiori/go-readability with a goquery fallback).
package extractor
