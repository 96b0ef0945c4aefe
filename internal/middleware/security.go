// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"strings"
)

// previewCSP allows the inline styles the syntax highlighter emits and
// remote images for cover art; scripts are not allowed at all.
const previewCSP = "default-src 'none'; img-src 'self' https: data:; style-src 'unsafe-inline'; frame-ancestors 'self'"

// SecureHeaders adds security-related HTTP headers to every response.
// Admin API responses are never cached; preview pages get a strict CSP.
func SecureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()

		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "SAMEORIGIN")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")

		switch {
		case strings.HasPrefix(r.URL.Path, "/admin/"):
			h.Set("Cache-Control", "no-store")
		case strings.HasPrefix(r.URL.Path, "/blog/preview/"):
			h.Set("Content-Security-Policy", previewCSP)
			h.Set("X-Robots-Tag", "noindex, nofollow")
		}

		next.ServeHTTP(w, r)
	})
}
