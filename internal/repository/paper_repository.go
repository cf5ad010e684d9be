package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sefazor/eventpapers-backend/internal/models"
)

type PaperRepository struct {
	db *gorm.DB
}

func NewPaperRepository(db *gorm.DB) *PaperRepository {
	return &PaperRepository{db: db}
}

func (r *PaperRepository) CountByEventID(ctx context.Context, eventID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Paper{}).Where("event_id = ?", eventID).Count(&count).Error
	return count, err
}

// GetByEventID returns papers in merge order.
func (r *PaperRepository) GetByEventID(ctx context.Context, eventID uint) ([]models.Paper, error) {
	var papers []models.Paper
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("id ASC").
		Find(&papers).Error
	return papers, err
}

func (r *PaperRepository) GetByPdfID(ctx context.Context, eventID uint, pdfID string) (*models.Paper, error) {
	var paper models.Paper
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND pdf_id = ?", eventID, pdfID).
		First(&paper).Error
	if err != nil {
		return nil, translate(err)
	}
	return &paper, nil
}

func (r *PaperRepository) List(ctx context.Context, offset, limit int) ([]models.Paper, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Paper{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var papers []models.Paper
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&papers).Error
	return papers, total, err
}

func (r *PaperRepository) Update(ctx context.Context, paper *models.Paper) error {
	return r.db.WithContext(ctx).Save(paper).Error
}
