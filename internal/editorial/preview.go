// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package editorial

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
)

// PreviewToken signs a slug so its unpublished preview can be shared
// without a dashboard session.
func PreviewToken(secret, slug string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(slug))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyPreviewToken reports whether token was issued for slug.
func VerifyPreviewToken(secret, slug, token string) bool {
	if secret == "" || token == "" {
		return false
	}
	want, err := hex.DecodeString(PreviewToken(secret, slug))
	if err != nil {
		return false
	}
	got, err := hex.DecodeString(token)
	if err != nil {
		return false
	}
	return hmac.Equal(want, got)
}

// PreviewURL returns the read-only preview link for a slug:
// {site}/blog/preview/{slug}?token=...
func PreviewURL(siteURL, secret, slug string) string {
	q := url.Values{}
	q.Set("token", PreviewToken(secret, slug))
	return strings.TrimRight(siteURL, "/") + "/blog/preview/" + url.PathEscape(slug) + "?" + q.Encode()
}
