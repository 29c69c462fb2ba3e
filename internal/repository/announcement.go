package repository

import (
	"context"

	"github.com/condovia/condo-server-go/internal/database"
	"github.com/condovia/condo-server-go/internal/model"
)

// AnnouncementRepository handles published notices
type AnnouncementRepository interface {
	Create(ctx context.Context, params model.CreateAnnouncementParams) (*model.Announcement, error)
	List(ctx context.Context, limit, offset int) ([]model.Announcement, error)
	Delete(ctx context.Context, id string) error
}

type announcementRepo struct {
	db *database.DB
}

// NewAnnouncementRepository creates a new announcement repository
func NewAnnouncementRepository(db *database.DB) AnnouncementRepository {
	return &announcementRepo{db: db}
}

func (r *announcementRepo) Create(ctx context.Context, params model.CreateAnnouncementParams) (*model.Announcement, error) {
	var a model.Announcement
	err := r.db.GetContext(ctx, &a, `
		INSERT INTO announcements (id, title, body, author_id, author_name)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING *
	`, params.ID, params.Title, params.Body, params.AuthorID, params.AuthorName)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *announcementRepo) List(ctx context.Context, limit, offset int) ([]model.Announcement, error) {
	var announcements []model.Announcement
	err := r.db.SelectContext(ctx, &announcements, `
		SELECT * FROM announcements
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	return announcements, err
}

func (r *announcementRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM announcements WHERE id = $1`, id)
	return err
}
