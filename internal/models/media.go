// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"path"
	"strings"
	"time"
)

// MediaFile describes a file owned by the media library. Posts reference it
// by FilePath only; the editor treats it as read-only lookup data.
type MediaFile struct {
	ID        string    `json:"id,omitempty"`
	FileName  string    `json:"file_name"`
	FilePath  string    `json:"file_path"`
	MimeType  string    `json:"mime_type,omitempty"`
	AltText   string    `json:"alt_text,omitempty"`
	Caption   string    `json:"caption,omitempty"`
	Width     int       `json:"width,omitempty"`
	Height    int       `json:"height,omitempty"`
	URL       string    `json:"url,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// MediaFromPath builds a synthetic descriptor for a stored cover-image path
// so the editor can show it without a media library lookup.
func MediaFromPath(filePath, altText string) *MediaFile {
	if strings.TrimSpace(filePath) == "" {
		return nil
	}
	return &MediaFile{
		FileName: path.Base(filePath),
		FilePath: filePath,
		AltText:  altText,
	}
}

// IsImage returns true if the media item is an image type. Files without a
// recorded MIME type are assumed to be images when their extension says so.
func (m *MediaFile) IsImage() bool {
	if m.MimeType != "" {
		return strings.HasPrefix(m.MimeType, "image/")
	}
	switch strings.ToLower(path.Ext(m.FilePath)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp", ".avif", ".svg":
		return true
	}
	return false
}
