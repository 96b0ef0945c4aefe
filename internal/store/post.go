// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"millcms/internal/models"
)

// PostRecord is a row of the posts table, named the way the table names
// its columns. Reading a record back into a models.Post is the gateway's
// job, since it also rebuilds the cover media descriptor.
type PostRecord struct {
	ID               string
	Title            string
	Slug             string
	Content          string
	Category         string
	Tags             []string
	FeaturedImage    string
	FeaturedImageAlt string
	AuthorName       string
	Status           string
	SEOTitle         string
	SEODescription   string
	PublishedAt      *time.Time
	ScheduledAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewPostRecord maps a post onto the table's columns.
func NewPostRecord(p models.Post) *PostRecord {
	return &PostRecord{
		ID:               p.ID,
		Title:            p.Title,
		Slug:             p.Slug,
		Content:          p.Content,
		Category:         string(p.Category),
		Tags:             append([]string{}, p.Tags...),
		FeaturedImage:    p.CoverImage,
		FeaturedImageAlt: p.CoverImageAlt,
		AuthorName:       p.Author,
		Status:           string(p.Status),
		SEOTitle:         p.SEOTitle,
		SEODescription:   p.SEODescription,
		PublishedAt:      p.PublishedAt,
		ScheduledAt:      p.ScheduledAt,
	}
}

// PostStore handles all post-related database operations.
type PostStore struct {
	db   *sql.DB
	tmap *pgtype.Map
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db, tmap: pgtype.NewMap()}
}

const postColumns = `id::text, title, slug, content, category, tags,
	featured_image, featured_image_alt, author_name, status,
	seo_title, seo_description, published_at, scheduled_at,
	created_at, updated_at`

func (s *PostStore) scanPost(scanner rowScanner) (*PostRecord, error) {
	var r PostRecord
	err := scanner.Scan(
		&r.ID, &r.Title, &r.Slug, &r.Content, &r.Category, s.tmap.SQLScanner(&r.Tags),
		&r.FeaturedImage, &r.FeaturedImageAlt, &r.AuthorName, &r.Status,
		&r.SEOTitle, &r.SEODescription, &r.PublishedAt, &r.ScheduledAt,
		&r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if r.Tags == nil {
		r.Tags = []string{}
	}
	return &r, nil
}

// FindByID retrieves a post by its ID. Returns nil if not found or if id
// is not a UUID.
func (s *PostStore) FindByID(ctx context.Context, id string) (*PostRecord, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}
	row := s.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, uid)
	r, err := s.scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return r, nil
}

// FindBySlug retrieves a post by its slug regardless of status. Used by
// the preview endpoint. Returns nil if not found.
func (s *PostStore) FindBySlug(ctx context.Context, slug string) (*PostRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE slug = $1`, slug)
	r, err := s.scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}
	return r, nil
}

// List returns every post, most recently updated first.
func (s *PostStore) List(ctx context.Context) ([]PostRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+postColumns+`
		FROM posts
		ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	items := []PostRecord{}
	for rows.Next() {
		r, err := s.scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		items = append(items, *r)
	}
	return items, rows.Err()
}

// Upsert writes the whole record keyed by ID, inserting it when the ID is
// new and overwriting every column otherwise. An empty ID gets a fresh
// UUID. There is no version check: the last write wins.
func (s *PostStore) Upsert(ctx context.Context, r *PostRecord) (*PostRecord, error) {
	id := r.ID
	if id == "" {
		id = uuid.NewString()
	}
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("upsert post: invalid id %q: %w", id, err)
	}
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO posts (id, title, slug, content, category, tags,
			featured_image, featured_image_alt, author_name, status,
			seo_title, seo_description, published_at, scheduled_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			slug = EXCLUDED.slug,
			content = EXCLUDED.content,
			category = EXCLUDED.category,
			tags = EXCLUDED.tags,
			featured_image = EXCLUDED.featured_image,
			featured_image_alt = EXCLUDED.featured_image_alt,
			author_name = EXCLUDED.author_name,
			status = EXCLUDED.status,
			seo_title = EXCLUDED.seo_title,
			seo_description = EXCLUDED.seo_description,
			published_at = EXCLUDED.published_at,
			scheduled_at = EXCLUDED.scheduled_at,
			updated_at = NOW()
		RETURNING `+postColumns,
		uid, r.Title, r.Slug, r.Content, r.Category, tags,
		r.FeaturedImage, r.FeaturedImageAlt, r.AuthorName, r.Status,
		r.SEOTitle, r.SEODescription, r.PublishedAt, r.ScheduledAt,
	)
	saved, err := s.scanPost(row)
	if err != nil {
		return nil, fmt.Errorf("upsert post: %w", err)
	}
	return saved, nil
}

// Delete removes a post by ID. It returns ErrNotFound when no row matched.
func (s *PostStore) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, uid)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return affectedOne(res)
}
