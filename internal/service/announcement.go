package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	apperrors "github.com/condovia/condo-server-go/internal/errors"
	"github.com/condovia/condo-server-go/internal/model"
	"github.com/condovia/condo-server-go/internal/repository"
)

// AnnouncementService handles admin-published notices
type AnnouncementService struct {
	announcementRepo repository.AnnouncementRepository
}

// NewAnnouncementService creates a new announcement service
func NewAnnouncementService(announcementRepo repository.AnnouncementRepository) *AnnouncementService {
	return &AnnouncementService{announcementRepo: announcementRepo}
}

// Publish creates an announcement. The author name is snapshotted at
// publish time.
func (s *AnnouncementService) Publish(ctx context.Context, title, body, authorID, authorName string) (*model.Announcement, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperrors.MissingRequired("title")
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperrors.MissingRequired("body")
	}

	a, err := s.announcementRepo.Create(ctx, model.CreateAnnouncementParams{
		ID:         uuid.NewString(),
		Title:      title,
		Body:       body,
		AuthorID:   authorID,
		AuthorName: authorName,
	})
	if err != nil {
		return nil, apperrors.Database(err)
	}

	log.Info().Str("announcementId", a.ID).Str("authorId", authorID).Msg("announcement published")
	return a, nil
}

func (s *AnnouncementService) List(ctx context.Context, limit, offset int) ([]model.Announcement, error) {
	announcements, err := s.announcementRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return announcements, nil
}

func (s *AnnouncementService) Delete(ctx context.Context, id string) error {
	if err := s.announcementRepo.Delete(ctx, id); err != nil {
		return apperrors.Database(err)
	}
	return nil
}
