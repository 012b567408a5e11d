package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ceodigitcare/bizledger/internal/domain"
)

// ErrNoReport is returned by LastReport when no reconciliation ran recently.
var ErrNoReport = fmt.Errorf("reconciliation report %w", domain.ErrNotFound)

// ReconciliationUseCase handles balance reconciliation operations
type ReconciliationUseCase struct {
	accountRepo AccountRepository
	balances    *BalanceUseCase
	cache       Cache
	reportTTL   time.Duration
}

// NewReconciliationUseCase creates a new reconciliation use case. With a nil
// cache reports are not kept.
func NewReconciliationUseCase(
	accountRepo AccountRepository,
	balances *BalanceUseCase,
	cache Cache,
	reportTTL time.Duration,
) *ReconciliationUseCase {
	if reportTTL <= 0 {
		reportTTL = DefaultReportTTL
	}
	return &ReconciliationUseCase{
		accountRepo: accountRepo,
		balances:    balances,
		cache:       cache,
		reportTTL:   reportTTL,
	}
}

// ReconciliationResult compares the cached balance of one account with the computed one
type ReconciliationResult struct {
	AccountID         string
	Currency          string
	RecordedBalance   int64
	CalculatedBalance int64
	Difference        int64
	IsReconciled      bool
	LastChecked       time.Time
}

// ReconcileAccount computes the balance of an account and compares it with
// the cached value. Nothing is written.
func (uc *ReconciliationUseCase) ReconcileAccount(ctx context.Context, tenantID, accountID string) (*ReconciliationResult, error) {
	if err := requireScope(tenantID, accountID); err != nil {
		return nil, err
	}

	account, err := uc.accountRepo.GetByID(ctx, tenantID, accountID)
	if err != nil {
		return nil, err
	}

	calculated, err := uc.balances.compute(ctx, account)
	if err != nil {
		return nil, err
	}

	return &ReconciliationResult{
		AccountID:         accountID,
		Currency:          account.Currency,
		RecordedBalance:   account.CurrentBalance,
		CalculatedBalance: calculated,
		Difference:        calculated - account.CurrentBalance,
		IsReconciled:      !account.IsStale(calculated),
		LastChecked:       time.Now().UTC(),
	}, nil
}

// Reconcile refreshes every balance of the tenant and keeps the report as
// the tenant's last report. A fail-fast abort still stores the partial report.
func (uc *ReconciliationUseCase) Reconcile(ctx context.Context, tenantID string, opts RefreshOptions) (*RefreshReport, error) {
	report, err := uc.balances.RefreshAllBalances(ctx, tenantID, opts)
	if report != nil {
		uc.store(ctx, report)
	}
	return report, err
}

// LastReport returns the most recent report stored by Reconcile.
func (uc *ReconciliationUseCase) LastReport(ctx context.Context, tenantID string) (*RefreshReport, error) {
	if tenantID == "" {
		return nil, domain.ErrInvalidTenantID
	}
	if uc.cache == nil {
		return nil, ErrNoReport
	}

	data, err := uc.cache.Get(ctx, reportKey(tenantID))
	if errors.Is(err, ErrCacheMiss) {
		return nil, ErrNoReport
	}
	if err != nil {
		return nil, domain.NewStorageError("get reconciliation report", err)
	}

	var report RefreshReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, domain.NewStorageError("decode reconciliation report", err)
	}

	return &report, nil
}

// store keeps the report. A cache failure is logged, not returned, since
// the balances are already committed.
func (uc *ReconciliationUseCase) store(ctx context.Context, report *RefreshReport) {
	if uc.cache == nil {
		return
	}

	logger := zerolog.Ctx(ctx)

	data, err := json.Marshal(report)
	if err != nil {
		logger.Error().Err(err).Msg("failed to encode reconciliation report")
		return
	}

	if err := uc.cache.Set(ctx, reportKey(report.TenantID), data, uc.reportTTL); err != nil {
		logger.Warn().Err(err).Str("tenant_id", report.TenantID).Msg("failed to cache reconciliation report")
	}
}

func reportKey(tenantID string) string {
	return "reconciliation:last:" + tenantID
}
