// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"millcms/internal/models"
)

// InquiryStore handles all inquiry-related database operations.
type InquiryStore struct {
	db *sql.DB
}

// NewInquiryStore creates a new InquiryStore with the given database connection.
func NewInquiryStore(db *sql.DB) *InquiryStore {
	return &InquiryStore{db: db}
}

const inquiryColumns = `id, name, email, company, phone, message, status, priority, created_at, updated_at`

func scanInquiry(scanner rowScanner) (*models.Inquiry, error) {
	var i models.Inquiry
	err := scanner.Scan(
		&i.ID, &i.Name, &i.Email, &i.Company, &i.Phone, &i.Message,
		&i.Status, &i.Priority, &i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

// List returns every inquiry, newest first.
func (s *InquiryStore) List(ctx context.Context) ([]models.Inquiry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+inquiryColumns+`
		FROM inquiries
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list inquiries: %w", err)
	}
	defer rows.Close()

	items := []models.Inquiry{}
	for rows.Next() {
		i, err := scanInquiry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inquiry: %w", err)
		}
		items = append(items, *i)
	}
	return items, rows.Err()
}

// FindByID retrieves an inquiry by its UUID. Returns nil if not found.
func (s *InquiryStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Inquiry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+inquiryColumns+` FROM inquiries WHERE id = $1`, id)
	i, err := scanInquiry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find inquiry by id: %w", err)
	}
	return i, nil
}

// Create inserts a new inquiry and returns it with the generated ID.
// Empty status and priority fall back to the table defaults.
func (s *InquiryStore) Create(ctx context.Context, in *models.Inquiry) (*models.Inquiry, error) {
	status := in.Status
	if status == "" {
		status = models.InquiryStatusNew
	}
	priority := in.Priority
	if priority == "" {
		priority = models.InquiryPriorityMedium
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO inquiries (name, email, company, phone, message, status, priority)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+inquiryColumns,
		in.Name, in.Email, in.Company, in.Phone, in.Message, status, priority,
	)
	i, err := scanInquiry(row)
	if err != nil {
		return nil, fmt.Errorf("create inquiry: %w", err)
	}
	return i, nil
}

// Update sets the status and priority of an inquiry and returns the
// updated row, or nil if no inquiry has that ID.
func (s *InquiryStore) Update(ctx context.Context, id uuid.UUID, status models.InquiryStatus, priority models.InquiryPriority) (*models.Inquiry, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE inquiries SET status = $1, priority = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING `+inquiryColumns,
		status, priority, id,
	)
	i, err := scanInquiry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update inquiry: %w", err)
	}
	return i, nil
}

// Delete removes an inquiry by ID. It returns ErrNotFound when no row matched.
func (s *InquiryStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM inquiries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete inquiry: %w", err)
	}
	return affectedOne(res)
}
