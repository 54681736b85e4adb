// Package pathutil maps request paths to bounded metric labels.
package pathutil

import (
	"strings"
)

// OtherPath is the label for every path that is not a registered route.
const OtherPath = "/other"

// knownPaths are the routes served by the API. Any other path, such as
// scanner probes or typos, shares the OtherPath label.
var knownPaths = map[string]struct{}{
	"/summarize": {},
	"/generate":  {},
	"/upload":    {},
	"/health":    {},
	"/ready":     {},
	"/live":      {},
	"/metrics":   {},
}

// NormalizePath returns a label for path with a bounded set of values.
// Registered routes are returned as is; everything else becomes OtherPath.
//
// Examples:
//
//	NormalizePath("/summarize")         // "/summarize"
//	NormalizePath("/upload/")           // "/upload"
//	NormalizePath("/health?verbose=1")  // "/health"
//	NormalizePath("/wp-admin/setup.php") // "/other"
func NormalizePath(path string) string {
	// Strip query parameters if present
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}

	// Strip trailing slash if present (except for root path)
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	if _, ok := knownPaths[path]; ok {
		return path
	}
	return OtherPath
}

// GetExpectedCardinality returns the number of distinct path labels
// NormalizePath can produce.
func GetExpectedCardinality() int {
	return len(knownPaths) + 1
}
