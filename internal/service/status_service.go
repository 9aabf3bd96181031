package service

import (
	"context"
	"fmt"
	"time"

	"trading-alerts/internal/dto"
	"trading-alerts/internal/ledger"
	"trading-alerts/internal/model"
	"trading-alerts/internal/repository"
	"trading-alerts/internal/status"
	"trading-alerts/pkg/logger"

	"golang.org/x/sync/errgroup"
)

type StatusService interface {
	ListOperations(ctx context.Context, system *model.TradingSystem) ([]dto.OperationStatusResponse, error)
	AlertStatus(ctx context.Context, alertID uint, operationID *uint) (*dto.AlertStatusResponse, error)
}

type statusService struct {
	log           *logger.Logger
	resolver      *status.Resolver
	alertRepo     repository.AlertRepository
	operationRepo repository.OperationRepository
	now           func() time.Time
}

func NewStatusService(log *logger.Logger, loc *time.Location, repo *repository.Repository) *statusService {
	return &statusService{
		log:           log,
		resolver:      status.NewResolver(loc),
		alertRepo:     repo.AlertRepo,
		operationRepo: repo.OperationRepo,
		now:           time.Now,
	}
}

func (s *statusService) ListOperations(ctx context.Context, system *model.TradingSystem) ([]dto.OperationStatusResponse, error) {
	operations, err := s.operationRepo.Get(ctx, model.GetOperationParam{System: system})
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to list operations", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to list operations: %w", err)
	}

	// One clock reading for the whole listing.
	now := s.now()
	result := make([]dto.OperationStatusResponse, 0, len(operations))
	for i := range operations {
		op := operations[i]
		result = append(result, dto.OperationStatusResponse{
			Operation:     op,
			DisplayStatus: string(s.resolver.Resolve(&op, nil, now)),
		})
	}
	return result, nil
}

func (s *statusService) AlertStatus(ctx context.Context, alertID uint, operationID *uint) (*dto.AlertStatusResponse, error) {
	var (
		alert *model.Alert
		op    *model.Operation
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		alert, err = s.alertRepo.GetByID(gctx, alertID)
		if err != nil {
			return fmt.Errorf("failed to load alert %d: %w", alertID, err)
		}
		return nil
	})
	if operationID != nil {
		g.Go(func() error {
			var err error
			op, err = s.operationRepo.GetByID(gctx, *operationID)
			if err != nil {
				return fmt.Errorf("failed to load operation %d: %w", *operationID, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.log.WarnContext(ctx, "Failed to resolve alert status", logger.ErrorField(err), logger.UintField("alert_id", alertID))
		return nil, err
	}

	if op != nil && (op.AlertID == nil || *op.AlertID != alertID) {
		err := fmt.Errorf("%w: operation %d does not belong to alert %d", ledger.ErrAlertMismatch, op.ID, alertID)
		s.log.WarnContext(ctx, "Rejected alert status lookup", logger.ErrorField(err), logger.UintField("alert_id", alertID))
		return nil, err
	}

	return &dto.AlertStatusResponse{
		AlertID:       alertID,
		OperationID:   operationID,
		DisplayStatus: string(s.resolver.Resolve(op, alert, s.now())),
	}, nil
}
