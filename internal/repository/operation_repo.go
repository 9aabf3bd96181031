package repository

import (
	"context"
	"strings"

	"trading-alerts/internal/model"
	"trading-alerts/pkg/utils"

	"gorm.io/gorm"
)

type OperationRepository interface {
	Get(ctx context.Context, param model.GetOperationParam, opts ...utils.DBOption) ([]model.Operation, error)
	GetByID(ctx context.Context, id uint, opts ...utils.DBOption) (*model.Operation, error)
}

type operationRepository struct {
	db *gorm.DB
}

func NewOperationRepository(db *gorm.DB) OperationRepository {
	return &operationRepository{
		db: db,
	}
}

// Get lists operations newest first with their linked alert preloaded. An
// empty param returns every operation.
func (r *operationRepository) Get(ctx context.Context, param model.GetOperationParam, opts ...utils.DBOption) ([]model.Operation, error) {
	var operations []model.Operation

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

	if len(param.AlertIDs) > 0 {
		qFilter = append(qFilter, "alert_id IN (?)")
		qFilterParam = append(qFilterParam, param.AlertIDs)
	}

	db := utils.ApplyOptions(r.db.WithContext(ctx), opts...).Preload("Alert")
	if len(qFilter) > 0 {
		db = db.Where(strings.Join(qFilter, " AND "), qFilterParam...)
	}
	if err := db.Order("created_at DESC, id DESC").Find(&operations).Error; err != nil {
		return nil, err
	}

	return operations, nil
}

func (r *operationRepository) GetByID(ctx context.Context, id uint, opts ...utils.DBOption) (*model.Operation, error) {
	var operation model.Operation
	db := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	if err := db.Preload("Alert").First(&operation, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &operation, nil
}
