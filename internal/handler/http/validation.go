package http

import (
	"errors"
	"net/http"

	"context-summarizer/internal/handler/http/respond"
)

// Request limits enforced by InputValidation.
const (
	MaxPathLength      = 2048
	MaxHeaderValueSize = 8 << 10
)

var (
	errPathTooLong    = errors.New("URI too long")
	errHeaderTooLarge = errors.New("request header too large")
)

// InputValidation returns middleware that rejects requests whose path exceeds
// MaxPathLength (414) or that carry any header value larger than
// MaxHeaderValueSize (431). Body size is limited per route by LimitRequestBody.
func InputValidation() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(r.URL.Path) > MaxPathLength {
				respond.SafeError(w, http.StatusRequestURITooLong, errPathTooLong)
				return
			}

			for _, values := range r.Header {
				for _, v := range values {
					if len(v) > MaxHeaderValueSize {
						respond.SafeError(w, http.StatusRequestHeaderFieldsTooLarge, errHeaderTooLarge)
						return
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
