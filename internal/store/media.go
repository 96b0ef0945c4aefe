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

// MediaStore reads the media library. Uploads are handled elsewhere; the
// editor only looks files up.
type MediaStore struct {
	db *sql.DB
}

// NewMediaStore creates a new MediaStore with the given database connection.
func NewMediaStore(db *sql.DB) *MediaStore {
	return &MediaStore{db: db}
}

// mediaColumns lists the columns selected in media queries.
const mediaColumns = `id::text, file_name, file_path, mime_type, alt_text,
	caption, width, height, created_at`

// scanMedia scans a media row from the result set.
func scanMedia(scanner rowScanner) (*models.MediaFile, error) {
	var m models.MediaFile
	err := scanner.Scan(
		&m.ID, &m.FileName, &m.FilePath, &m.MimeType, &m.AltText,
		&m.Caption, &m.Width, &m.Height, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserts a media record and returns it with the generated ID.
func (s *MediaStore) Create(ctx context.Context, m *models.MediaFile) (*models.MediaFile, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO media (file_name, file_path, mime_type, alt_text, caption, width, height)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+mediaColumns,
		m.FileName, m.FilePath, m.MimeType, m.AltText, m.Caption, m.Width, m.Height,
	)
	created, err := scanMedia(row)
	if err != nil {
		return nil, fmt.Errorf("create media: %w", err)
	}
	return created, nil
}

// FindByID retrieves a single media record by its UUID.
func (s *MediaStore) FindByID(ctx context.Context, id uuid.UUID) (*models.MediaFile, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+mediaColumns+` FROM media WHERE id = $1`, id)
	m, err := scanMedia(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find media by id: %w", err)
	}
	return m, nil
}

// List returns media items ordered by creation date, with pagination.
func (s *MediaStore) List(ctx context.Context, limit, offset int) ([]models.MediaFile, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+mediaColumns+`
		FROM media
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}
	defer rows.Close()

	items := []models.MediaFile{}
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, fmt.Errorf("scan media: %w", err)
		}
		items = append(items, *m)
	}
	return items, rows.Err()
}
