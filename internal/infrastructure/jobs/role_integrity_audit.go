package jobs

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
	"tutorhub.backend/internal/domain/entities"
	"tutorhub.backend/pkg/logger"
	"tutorhub.backend/pkg/utils"
)

const (
	defaultAuditInterval = 15 * time.Minute
	auditBatchSize       = 100
)

var flaggedAccounts = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "tutorhub",
	Name:      "role_integrity_flagged_accounts",
	Help:      "Accounts whose role profiles disagree with their declared role, as of the last audit.",
})

type integrityRepo interface {
	ListRoleIntegrityViolations(ctx context.Context, pagination utils.PaginationParams) ([]*entities.Account, int64, error)
}

// RoleIntegrityAuditJob periodically reports accounts whose role profiles
// disagree with Account.Role. It never repairs rows itself.
type RoleIntegrityAuditJob struct {
	repo     integrityRepo
	interval time.Duration
	stop     chan struct{}
}

func NewRoleIntegrityAuditJob(repo integrityRepo, interval time.Duration) *RoleIntegrityAuditJob {
	if interval <= 0 {
		interval = defaultAuditInterval
	}
	return &RoleIntegrityAuditJob{
		repo:     repo,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

func (j *RoleIntegrityAuditJob) Start(ctx context.Context) {
	logger.Info(ctx, "Starting role integrity audit job", zap.Duration("interval", j.interval))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Role integrity audit job stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "Role integrity audit job stopped")
			return
		case <-ticker.C:
			j.audit(ctx)
		}
	}
}

func (j *RoleIntegrityAuditJob) Stop() {
	close(j.stop)
}

// audit walks every flagged account page by page and returns the total,
// or -1 when a lookup failed
func (j *RoleIntegrityAuditJob) audit(ctx context.Context) int {
	var total int64
	for pagination := utils.GetPaginationParams(1, auditBatchSize); ; pagination = pagination.Next() {
		flagged, count, err := j.repo.ListRoleIntegrityViolations(ctx, pagination)
		if err != nil {
			logger.Error(ctx, "Role integrity audit failed", zap.Int("page", pagination.Page), zap.Error(err))
			return -1
		}
		total = count

		for _, acc := range flagged {
			logger.Warn(ctx, "Account role profiles disagree with declared role",
				zap.String("account_id", acc.ID.String()),
				zap.String("role", string(acc.Role)),
			)
		}

		if len(flagged) == 0 || !utils.CalculateMeta(count, pagination.Page, pagination.Limit).HasNext() {
			break
		}
	}

	flaggedAccounts.Set(float64(total))
	if total > 0 {
		logger.Warn(ctx, "Role integrity audit flagged accounts", zap.Int64("count", total))
	}
	return int(total)
}
