package model

import (
	"time"
)

// Announcement is a notice published by an administrator to all portals.
// AuthorName is a snapshot taken at publish time.
type Announcement struct {
	ID         string    `db:"id" json:"id"`
	Title      string    `db:"title" json:"title"`
	Body       string    `db:"body" json:"body"`
	AuthorID   string    `db:"author_id" json:"authorId"`
	AuthorName string    `db:"author_name" json:"authorName"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

type CreateAnnouncementParams struct {
	ID         string
	Title      string
	Body       string
	AuthorID   string
	AuthorName string
}
