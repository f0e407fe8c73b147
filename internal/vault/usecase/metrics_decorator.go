package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/suportify/helpdesk/internal/metrics"
	"github.com/suportify/helpdesk/internal/vault/domain"
)

// vaultUseCaseWithMetrics decorates VaultUseCase with metrics instrumentation.
type vaultUseCaseWithMetrics struct {
	next    VaultUseCase
	metrics metrics.BusinessMetrics
}

// NewVaultUseCaseWithMetrics wraps a VaultUseCase with metrics recording.
func NewVaultUseCaseWithMetrics(useCase VaultUseCase, m metrics.BusinessMetrics) VaultUseCase {
	return &vaultUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// record reports one vault operation with its outcome and duration.
func (v *vaultUseCaseWithMetrics) record(
	ctx context.Context,
	operation string,
	start time.Time,
	err error,
) {
	status := "success"
	if err != nil {
		status = "error"
	}
	v.metrics.RecordOperation(ctx, "vault", operation, status)
	v.metrics.RecordDuration(ctx, "vault", operation, time.Since(start), status)
}

func (v *vaultUseCaseWithMetrics) CreateOrganization(
	ctx context.Context,
	organizationName string,
) (*domain.Record, error) {
	start := time.Now()
	record, err := v.next.CreateOrganization(ctx, organizationName)
	v.record(ctx, "vault_create", start, err)
	return record, err
}

func (v *vaultUseCaseWithMetrics) Get(
	ctx context.Context,
	organizationName string,
) (*domain.Record, error) {
	start := time.Now()
	record, err := v.next.Get(ctx, organizationName)
	v.record(ctx, "vault_get", start, err)
	return record, err
}

func (v *vaultUseCaseWithMetrics) List(
	ctx context.Context,
	offset, limit int,
) ([]*domain.Record, error) {
	start := time.Now()
	records, err := v.next.List(ctx, offset, limit)
	v.record(ctx, "vault_list", start, err)
	return records, err
}

func (v *vaultUseCaseWithMetrics) Upsert(
	ctx context.Context,
	organizationName string,
	patch *domain.UpdatePatch,
) (*domain.Record, error) {
	start := time.Now()
	record, err := v.next.Upsert(ctx, organizationName, patch)
	v.record(ctx, "vault_upsert", start, err)
	return record, err
}

func (v *vaultUseCaseWithMetrics) AddCredential(
	ctx context.Context,
	organizationName string,
	entry domain.Credential,
) (*domain.Credential, error) {
	start := time.Now()
	credential, err := v.next.AddCredential(ctx, organizationName, entry)
	v.record(ctx, "credential_add", start, err)
	return credential, err
}

func (v *vaultUseCaseWithMetrics) RemoveCredential(
	ctx context.Context,
	organizationName string,
	credentialID uuid.UUID,
) error {
	start := time.Now()
	err := v.next.RemoveCredential(ctx, organizationName, credentialID)
	v.record(ctx, "credential_remove", start, err)
	return err
}

func (v *vaultUseCaseWithMetrics) AddRemoteAccess(
	ctx context.Context,
	organizationName string,
	entry domain.RemoteAccessEntry,
) (*domain.RemoteAccessEntry, error) {
	start := time.Now()
	result, err := v.next.AddRemoteAccess(ctx, organizationName, entry)
	v.record(ctx, "remote_access_add", start, err)
	return result, err
}

func (v *vaultUseCaseWithMetrics) RemoveRemoteAccess(
	ctx context.Context,
	organizationName string,
	entryID uuid.UUID,
) error {
	start := time.Now()
	err := v.next.RemoveRemoteAccess(ctx, organizationName, entryID)
	v.record(ctx, "remote_access_remove", start, err)
	return err
}

func (v *vaultUseCaseWithMetrics) SetDiagram(
	ctx context.Context,
	organizationName string,
	blob json.RawMessage,
) error {
	start := time.Now()
	err := v.next.SetDiagram(ctx, organizationName, blob)
	v.record(ctx, "diagram_set", start, err)
	return err
}

func (v *vaultUseCaseWithMetrics) SetLayout(
	ctx context.Context,
	organizationName string,
	blob json.RawMessage,
) error {
	start := time.Now()
	err := v.next.SetLayout(ctx, organizationName, blob)
	v.record(ctx, "layout_set", start, err)
	return err
}
