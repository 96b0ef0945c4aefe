// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// InquiryStatus tracks how far a lead has progressed through follow-up.
type InquiryStatus string

const (
	InquiryStatusNew        InquiryStatus = "new"
	InquiryStatusInProgress InquiryStatus = "in_progress"
	InquiryStatusContacted  InquiryStatus = "contacted"
	InquiryStatusFollowUp   InquiryStatus = "follow_up"
	InquiryStatusClosed     InquiryStatus = "closed"
)

// Valid reports whether s is a known inquiry status.
func (s InquiryStatus) Valid() bool {
	switch s {
	case InquiryStatusNew, InquiryStatusInProgress, InquiryStatusContacted,
		InquiryStatusFollowUp, InquiryStatusClosed:
		return true
	}
	return false
}

// InquiryPriority ranks leads for the sales team.
type InquiryPriority string

const (
	InquiryPriorityHigh   InquiryPriority = "high"
	InquiryPriorityMedium InquiryPriority = "medium"
	InquiryPriorityLow    InquiryPriority = "low"
)

// Valid reports whether p is a known priority.
func (p InquiryPriority) Valid() bool {
	switch p {
	case InquiryPriorityHigh, InquiryPriorityMedium, InquiryPriorityLow:
		return true
	}
	return false
}

// Inquiry is an inbound contact record submitted from the marketing site.
type Inquiry struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Company   *string         `json:"company,omitempty"`
	Phone     *string         `json:"phone,omitempty"`
	Message   string          `json:"message"`
	Status    InquiryStatus   `json:"status"`
	Priority  InquiryPriority `json:"priority"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// IsUnread reports whether nobody has picked the inquiry up yet.
func (i *Inquiry) IsUnread() bool {
	return i.Status == InquiryStatusNew
}
