package repo

import (
	"context"

	"github.com/tradewatch/fxwatch/internal/entity"
	"gorm.io/gorm"
)

type RecommendationRepo interface {
	CreateBatch(ctx context.Context, recs []entity.Recommendation) error
}

type recommendationRepo struct {
	db *gorm.DB
}

func NewRecommendationRepo(db *gorm.DB) RecommendationRepo {
	return &recommendationRepo{
		db: db,
	}
}

func (r *recommendationRepo) CreateBatch(ctx context.Context, recs []entity.Recommendation) error {
	if len(recs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&recs).Error
}
