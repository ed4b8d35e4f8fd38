package services

import (
	"context"
	"fmt"

	"yatube/internal/models"

	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const postOrder = "posts.created_at DESC, posts.id DESC"

type PostService struct {
	db *gorm.DB
}

func NewPostService(db *gorm.DB) *PostService {
	return &PostService{db: db}
}

func (s *PostService) page(ctx context.Context, filter func(*gorm.DB) *gorm.DB, rawPage string) (*Page[models.Post], error) {
	page, err := Paginate[models.Post](ctx, s.db, filter, postOrder, rawPage, PostsPerPage, "Author", "Group")
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	if err := s.fillCommentCounts(ctx, page.Items); err != nil {
		return nil, err
	}
	return page, nil
}

// ListAll is the home feed.
func (s *PostService) ListAll(ctx context.Context, rawPage string) (*Page[models.Post], error) {
	return s.page(ctx, nil, rawPage)
}

func (s *PostService) ListByGroup(ctx context.Context, groupID uint, rawPage string) (*Page[models.Post], error) {
	return s.page(ctx, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("posts.group_id = ?", groupID)
	}, rawPage)
}

func (s *PostService) ListByAuthor(ctx context.Context, authorID uint, rawPage string) (*Page[models.Post], error) {
	return s.page(ctx, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("posts.author_id = ?", authorID)
	}, rawPage)
}

// ListFollowed returns posts written by the authors userID follows.
func (s *PostService) ListFollowed(ctx context.Context, userID uint, rawPage string) (*Page[models.Post], error) {
	return s.page(ctx, func(tx *gorm.DB) *gorm.DB {
		return tx.Joins("JOIN follows ON follows.author_id = posts.author_id").
			Where("follows.user_id = ?", userID)
	}, rawPage)
}

func (s *PostService) Get(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).Preload("Author").Preload("Group").First(&post, id).Error; err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

func (s *PostService) CountByAuthor(ctx context.Context, authorID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Post{}).Where("author_id = ?", authorID).Count(&count).Error
	return count, err
}

// Create stores a new post; AuthorID must already be set.
func (s *PostService) Create(ctx context.Context, post *models.Post) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Create(post).Error
	})
}

// Update writes the user-editable fields. The like counter is left alone so
// a concurrent toggle is never overwritten.
func (s *PostService) Update(ctx context.Context, post *models.Post) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Post{}).Where("id = ?", post.ID).Updates(map[string]any{
			"text":     post.Text,
			"group_id": post.GroupID,
			"image":    post.Image,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// fillCommentCounts sets CommentCount on every post with a single grouped query.
func (s *PostService) fillCommentCounts(ctx context.Context, posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	postIDs := lo.Map(posts, func(p models.Post, _ int) uint { return p.ID })

	type countResult struct {
		PostID uint
		Count  int
	}
	var results []countResult
	if err := s.db.WithContext(ctx).Model(&models.Comment{}).
		Select("post_id, COUNT(*) as count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&results).Error; err != nil {
		return fmt.Errorf("count comments: %w", err)
	}

	counts := lo.SliceToMap(results, func(r countResult) (uint, int) { return r.PostID, r.Count })
	for i := range posts {
		posts[i].CommentCount = counts[posts[i].ID]
	}
	return nil
}
