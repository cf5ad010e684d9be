package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/sefazor/eventpapers-backend/internal/models"
)

// Columns written by the artifact workflows.
const (
	ColumnSummaryFilename      = "summary_filename"
	ColumnMergedPapersFilename = "merged_papers_filename"
	ColumnAnalFilename         = "anal_filename"
)

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *EventRepository) GetByID(ctx context.Context, id uint) (*models.Event, error) {
	var event models.Event
	if err := r.db.WithContext(ctx).First(&event, id).Error; err != nil {
		return nil, translate(err)
	}
	return &event, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// FindByName matches case-insensitively on any part of the name. LIKE
// wildcards in name are matched literally.
func (r *EventRepository) FindByName(ctx context.Context, name string) ([]models.Event, error) {
	var events []models.Event
	err := r.db.WithContext(ctx).
		Where(`name ILIKE ? ESCAPE '\'`, "%"+likeEscaper.Replace(name)+"%").
		Order("id ASC").
		Find(&events).Error
	return events, err
}

func (r *EventRepository) FindByInitialDate(ctx context.Context, date time.Time) ([]models.Event, error) {
	var events []models.Event
	err := r.db.WithContext(ctx).
		Where("initial_date = ?", date.Format(models.DateLayout)).
		Order("id ASC").
		Find(&events).Error
	return events, err
}

func (r *EventRepository) FindByFinalDate(ctx context.Context, date time.Time) ([]models.Event, error) {
	var events []models.Event
	err := r.db.WithContext(ctx).
		Where("final_date = ?", date.Format(models.DateLayout)).
		Order("id ASC").
		Find(&events).Error
	return events, err
}

// List returns one page ordered by id, plus the total row count.
func (r *EventRepository) List(ctx context.Context, offset, limit int) ([]models.Event, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Event{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var events []models.Event
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&events).Error
	return events, total, err
}

// UpdateFilename sets one of the artifact key columns and returns the fresh row.
func (r *EventRepository) UpdateFilename(ctx context.Context, id uint, column, key string) (*models.Event, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Event{}).
		Where("id = ?", id).
		Update(column, key)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// RecordMergedPapers stores the merged key and registers the papers in one
// transaction. The key is only written while still null.
func (r *EventRepository) RecordMergedPapers(ctx context.Context, id uint, key string, papers []models.Paper) (*models.Event, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Event{}).
			Where("id = ? AND merged_papers_filename IS NULL", id).
			Update(ColumnMergedPapersFilename, key)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.Event{}).Where("id = ?", id).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrNotFound
			}
			return ErrAlreadyMerged
		}

		if len(papers) == 0 {
			return nil
		}
		for i := range papers {
			papers[i].EventID = id
		}
		return tx.CreateInBatches(papers, 100).Error
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}
