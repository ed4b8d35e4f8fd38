package services

import (
	"context"
	"fmt"

	"yatube/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const commentOrder = "comments.created_at DESC, comments.id DESC"

type CommentService struct {
	db *gorm.DB
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{db: db}
}

func (s *CommentService) ListForPost(ctx context.Context, postID uint, rawPage string) (*Page[models.Comment], error) {
	page, err := Paginate[models.Comment](ctx, s.db, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("comments.post_id = ?", postID)
	}, commentOrder, rawPage, CommentsPerPage, "Author")
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return page, nil
}

// Add attaches a comment to its post; PostID and AuthorID must be set.
func (s *CommentService) Add(ctx context.Context, comment *models.Comment) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Create(comment).Error
	})
}
