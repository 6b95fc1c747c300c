package usecase

import (
	"context"
	"time"

	"github.com/invisiedge/Atreo-sub001/internal/domain"
	"github.com/invisiedge/Atreo-sub001/internal/platform/logger"
	"go.uber.org/zap"
)

// AuditUsecase writes and queries the audit trail.
type AuditUsecase struct {
	repo      domain.AuditRepository
	publisher EventPublisher
	logger    *logger.Logger
}

func NewAuditUsecase(repo domain.AuditRepository, publisher EventPublisher, log *logger.Logger) *AuditUsecase {
	return &AuditUsecase{repo: repo, publisher: publisher, logger: log.Named("AuditUsecase")}
}

// Record stores entry and announces it on the event bus. Publishing is best effort.
func (uc *AuditUsecase) Record(ctx context.Context, entry *domain.AuditLog) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	if err := uc.repo.Create(ctx, entry); err != nil {
		uc.logger.Error("Failed to write audit log",
			zap.String("module", entry.Module),
			zap.String("action", string(entry.Action)),
			zap.Error(err))
		return err
	}
	if err := uc.publisher.Publish(ctx, domain.SubjectAuditRecorded, entry); err != nil {
		uc.logger.Warn("Failed to publish audit event", zap.String("audit_id", entry.ID), zap.Error(err))
	}
	return nil
}

func (uc *AuditUsecase) List(ctx context.Context, actor *domain.Actor, filter domain.AuditFilter) (*domain.Page[*domain.AuditLog], error) {
	org, err := actor.ScopeOrganization(filter.OrganizationID)
	if err != nil {
		return nil, err
	}
	filter.OrganizationID = org
	filter.Normalize()
	items, total, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return domain.NewPage(items, total, filter.ListFilter), nil
}
