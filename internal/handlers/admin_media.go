package handlers

import (
	"net/http"

	"millcms/internal/models"
)

// MediaList returns a page of the media library with public URLs filled
// in, for the editor's cover image picker.
func (a *Admin) MediaList(w http.ResponseWriter, r *http.Request) {
	if a.media == nil {
		writeJSON(w, http.StatusOK, map[string]any{"media": []models.MediaFile{}, "configured": false})
		return
	}

	limit, offset := pageParams(r)
	items, err := a.media.List(r.Context(), limit, offset)
	if err != nil {
		a.logger.Error("list media failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not load media")
		return
	}
	if items == nil {
		items = []models.MediaFile{}
	}
	if a.mediaURLs != nil {
		for i := range items {
			items[i].URL = a.mediaURLs.FileURL(items[i].FilePath)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"media":      items,
		"configured": true,
		"limit":      limit,
		"offset":     offset,
	})
}
