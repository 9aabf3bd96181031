package repository

import (
	"context"
	"fmt"
	"strings"

	"trading-alerts/internal/model"
	"trading-alerts/pkg/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AlertRepository interface {
	Get(ctx context.Context, param model.GetAlertParam, opts ...utils.DBOption) ([]model.Alert, error)
	GetByID(ctx context.Context, id uint, opts ...utils.DBOption) (*model.Alert, error)
	Save(ctx context.Context, alert *model.Alert, opts ...utils.DBOption) error
}

type alertRepository struct {
	db *gorm.DB
}

func NewAlertRepository(db *gorm.DB) AlertRepository {
	return &alertRepository{
		db: db,
	}
}

func (r *alertRepository) Get(ctx context.Context, param model.GetAlertParam, opts ...utils.DBOption) ([]model.Alert, error) {
	var alerts []model.Alert

	qFilter := []string{}
	qFilterParam := []interface{}{}

	if len(param.IDs) > 0 {
		qFilter = append(qFilter, "id IN (?)")
		qFilterParam = append(qFilterParam, param.IDs)
	}

	if param.System != nil {
		qFilter = append(qFilter, "system = ?")
		qFilterParam = append(qFilterParam, *param.System)
	}

	if len(param.Status) > 0 {
		qFilter = append(qFilter, "status IN (?)")
		qFilterParam = append(qFilterParam, param.Status)
	}

	if len(qFilter) == 0 {
		return nil, fmt.Errorf("no filter provided")
	}

	db := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	if err := db.Where(strings.Join(qFilter, " AND "), qFilterParam...).Order("id").Find(&alerts).Error; err != nil {
		return nil, err
	}

	return alerts, nil
}

func (r *alertRepository) GetByID(ctx context.Context, id uint, opts ...utils.DBOption) (*model.Alert, error) {
	var alert model.Alert
	db := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	err := db.Preload("PartialSales", func(db *gorm.DB) *gorm.DB {
		return db.Order("id")
	}).First(&alert, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &alert, nil
}

// Save writes the alert row and inserts partial sales that have no ID yet.
// Existing partial sales are never rewritten.
func (r *alertRepository) Save(ctx context.Context, alert *model.Alert, opts ...utils.DBOption) error {
	db := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	if err := db.Omit(clause.Associations).Save(alert).Error; err != nil {
		return fmt.Errorf("save alert %d: %w", alert.ID, err)
	}

	for i := range alert.PartialSales {
		sale := &alert.PartialSales[i]
		if sale.ID != 0 {
			continue
		}
		sale.AlertID = alert.ID
		if err := db.Create(sale).Error; err != nil {
			return fmt.Errorf("create partial sale for alert %d: %w", alert.ID, err)
		}
	}
	return nil
}
