package seed

import (
	"context"
	"fmt"
	"log/slog"

	"millcms/internal/models"
	"millcms/internal/store"
)

const (
	devAdminEmail    = "admin@millcms.local"
	devAdminPassword = "admin"
)

// UserWriter creates dashboard users.
type UserWriter interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, email, password, displayName string, role models.Role) (*models.User, error)
}

// PostWriter stores post records.
type PostWriter interface {
	FindByID(ctx context.Context, id string) (*store.PostRecord, error)
	FindBySlug(ctx context.Context, slug string) (*store.PostRecord, error)
	Upsert(ctx context.Context, r *store.PostRecord) (*store.PostRecord, error)
}

// InquiryWriter stores inquiries.
type InquiryWriter interface {
	List(ctx context.Context) ([]models.Inquiry, error)
	Create(ctx context.Context, in *models.Inquiry) (*models.Inquiry, error)
}

// MediaWriter stores media library records.
type MediaWriter interface {
	List(ctx context.Context, limit, offset int) ([]models.MediaFile, error)
	Create(ctx context.Context, m *models.MediaFile) (*models.MediaFile, error)
}

// Stores are the targets Load writes to.
type Stores struct {
	Users     UserWriter
	Posts     PostWriter
	Inquiries InquiryWriter
	Media     MediaWriter
}

// Load populates an empty development database: a default admin user, the
// demonstration posts under their fixed IDs (so the database and the
// fallback dataset share identifiers), a media entry per seed cover image
// and a few sample inquiries. It only fills gaps and never overwrites, so
// running it on every start is safe.
func Load(ctx context.Context, st Stores, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	if err := loadAdmin(ctx, st.Users, logger); err != nil {
		return err
	}
	if err := loadPosts(ctx, st.Posts, logger); err != nil {
		return err
	}
	if err := loadMedia(ctx, st.Media, logger); err != nil {
		return err
	}
	return loadInquiries(ctx, st.Inquiries, logger)
}

func loadAdmin(ctx context.Context, users UserWriter, logger *slog.Logger) error {
	existing, err := users.FindByEmail(ctx, devAdminEmail)
	if err != nil {
		return fmt.Errorf("seed check admin: %w", err)
	}
	if existing != nil {
		logger.Info("admin user already seeded, skipping")
		return nil
	}

	if _, err := users.Create(ctx, devAdminEmail, devAdminPassword, "Admin", models.RoleAdmin); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	logger.Info("database seeded with default admin user",
		"email", devAdminEmail,
		"password", devAdminPassword,
	)
	return nil
}

func loadPosts(ctx context.Context, posts PostWriter, logger *slog.Logger) error {
	inserted := 0
	for _, p := range Posts() {
		byID, err := posts.FindByID(ctx, p.ID)
		if err != nil {
			return fmt.Errorf("seed check post %s: %w", p.Slug, err)
		}
		bySlug, err := posts.FindBySlug(ctx, p.Slug)
		if err != nil {
			return fmt.Errorf("seed check post %s: %w", p.Slug, err)
		}
		if byID != nil || bySlug != nil {
			continue
		}
		if _, err := posts.Upsert(ctx, store.NewPostRecord(p)); err != nil {
			return fmt.Errorf("seed post %s: %w", p.Slug, err)
		}
		inserted++
	}
	logger.Info("seed posts applied", "inserted", inserted)
	return nil
}

func loadMedia(ctx context.Context, media MediaWriter, logger *slog.Logger) error {
	existing, err := media.List(ctx, 1, 0)
	if err != nil {
		return fmt.Errorf("seed check media: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	count := 0
	for _, p := range Posts() {
		m := models.MediaFromPath(p.CoverImage, p.CoverImageAlt)
		if m == nil {
			continue
		}
		m.MimeType = "image/jpeg"
		if _, err := media.Create(ctx, m); err != nil {
			return fmt.Errorf("seed media %s: %w", m.FilePath, err)
		}
		count++
	}
	logger.Info("database seeded with media library entries", "count", count)
	return nil
}

func loadInquiries(ctx context.Context, inquiries InquiryWriter, logger *slog.Logger) error {
	existing, err := inquiries.List(ctx)
	if err != nil {
		return fmt.Errorf("seed check inquiries: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	for _, in := range sampleInquiries() {
		if _, err := inquiries.Create(ctx, &in); err != nil {
			return fmt.Errorf("seed inquiry from %s: %w", in.Email, err)
		}
	}
	logger.Info("database seeded with sample inquiries", "count", len(sampleInquiries()))
	return nil
}

func sampleInquiries() []models.Inquiry {
	company := func(s string) *string { return &s }
	return []models.Inquiry{
		{
			Name:     "Jordan Blake",
			Email:    "jordan@harbourfab.example",
			Company:  company("Harbour Fabrication"),
			Message:  "We generate about 40 tonnes of steel offcuts a month. Can you quote collection?",
			Status:   models.InquiryStatusNew,
			Priority: models.InquiryPriorityHigh,
		},
		{
			Name:     "Sam Okafor",
			Email:    "sam@okafor.example",
			Message:  "Do you accept insulated copper wire?",
			Status:   models.InquiryStatusNew,
			Priority: models.InquiryPriorityMedium,
		},
		{
			Name:     "Lee Varga",
			Email:    "lee@vargabuild.example",
			Company:  company("Varga Build"),
			Message:  "Following up on last week's demolition quote.",
			Status:   models.InquiryStatusContacted,
			Priority: models.InquiryPriorityLow,
		},
	}
}
