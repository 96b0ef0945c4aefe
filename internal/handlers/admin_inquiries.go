// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"millcms/internal/models"
	"millcms/internal/realtime"
	"millcms/internal/store"
)

// InquiriesList returns every quote request, newest first.
func (a *Admin) InquiriesList(w http.ResponseWriter, r *http.Request) {
	items, err := a.inquiries.List(r.Context())
	if err != nil {
		a.logger.Error("list inquiries failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not load inquiries")
		return
	}
	if items == nil {
		items = []models.Inquiry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"inquiries": items})
}

// InquiryUpdate changes the status and/or priority of an inquiry.
func (a *Admin) InquiryUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid inquiry id")
		return
	}

	var u inquiryUpdate
	if err := decodeJSON(w, r, &u); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := validateInquiryUpdate(u); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	current, err := a.inquiries.FindByID(r.Context(), id)
	if err != nil {
		a.logger.Error("inquiry lookup failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "could not load inquiry")
		return
	}
	if current == nil {
		writeError(w, http.StatusNotFound, "inquiry not found")
		return
	}

	status, priority := current.Status, current.Priority
	if u.Status != nil {
		status = *u.Status
	}
	if u.Priority != nil {
		priority = *u.Priority
	}

	updated, err := a.inquiries.Update(r.Context(), id, status, priority)
	if err != nil {
		a.logger.Error("inquiry update failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "could not update inquiry")
		return
	}
	if updated == nil {
		writeError(w, http.StatusNotFound, "inquiry not found")
		return
	}

	a.logger.Info("inquiry updated", "id", id, "status", status, "priority", priority)
	a.inquiriesChanged(r.Context())
	writeJSON(w, http.StatusOK, updated)
}

// InquiryDelete removes an inquiry. A failed delete is logged and changes
// nothing; the dashboard keeps showing the row.
func (a *Admin) InquiryDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid inquiry id")
		return
	}

	err = a.inquiries.Delete(r.Context(), id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "inquiry not found")
		return
	case err != nil:
		a.logger.Error("inquiry delete failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "could not delete inquiry")
		return
	}

	a.logger.Info("inquiry deleted", "id", id)
	a.inquiriesChanged(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (a *Admin) inquiriesChanged(ctx context.Context) {
	if a.publisher == nil {
		return
	}
	if err := a.publisher.Publish(ctx, realtime.CollectionInquiries); err != nil {
		a.logger.Warn("inquiry change notification failed", "error", err)
	}
}
