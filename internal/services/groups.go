package services

import (
	"context"

	"yatube/internal/models"

	"gorm.io/gorm"
)

type GroupService struct {
	db *gorm.DB
}

func NewGroupService(db *gorm.DB) *GroupService {
	return &GroupService{db: db}
}

func (s *GroupService) BySlug(ctx context.Context, slug string) (*models.Group, error) {
	var group models.Group
	if err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&group).Error; err != nil {
		return nil, translate(err)
	}
	return &group, nil
}

// ByTitle matches the title exactly. Titles are not unique; the oldest group wins.
func (s *GroupService) ByTitle(ctx context.Context, title string) (*models.Group, error) {
	var group models.Group
	if err := s.db.WithContext(ctx).Where("title = ?", title).Order("id ASC").First(&group).Error; err != nil {
		return nil, translate(err)
	}
	return &group, nil
}

func (s *GroupService) List(ctx context.Context) ([]models.Group, error) {
	var groups []models.Group
	err := s.db.WithContext(ctx).Order("title ASC").Find(&groups).Error
	return groups, err
}

func (s *GroupService) Create(ctx context.Context, group *models.Group) error {
	return s.db.WithContext(ctx).Create(group).Error
}
