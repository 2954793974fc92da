package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/annavdbeek/plantportal/internal/models"
	"github.com/annavdbeek/plantportal/internal/warehouse"
	"github.com/annavdbeek/plantportal/pkg/logger"
	"github.com/annavdbeek/plantportal/pkg/metrics"
)

// PermissionService resolves a user's grant rows into a flat, UI-consumable
// list of experiment-level permissions, expanding table-scoped admin grants
// into one entry per experiment found in the table.
type PermissionService struct {
	store      warehouse.Store
	grantTable models.TableRef
	log        *zap.Logger
}

// NewPermissionService wires the resolver against the store and the
// configured permission table location.
func NewPermissionService(store warehouse.Store, grantTable models.TableRef) (*PermissionService, error) {
	if store == nil {
		return nil, errors.New("permission service: store is required")
	}
	if _, err := qualifiedTable(grantTable.Project, grantTable.Dataset, grantTable.Table); err != nil {
		return nil, fmt.Errorf("permission service: grant table: %w", err)
	}
	return &PermissionService{
		store:      store,
		grantTable: grantTable,
		log:        logger.WithModule("permissions"),
	}, nil
}

// grantFailure records one grant that could not be resolved. Failures are
// aggregated and logged; they never void the rest of the batch.
type grantFailure struct {
	TableID string
	Reason  string
}

// ResolvePermissions fetches all grants for email and flattens them into
// per-experiment permissions. An unknown email yields an empty list, and so
// does a store failure before iteration begins: a caller mid-render is
// shown "no visible permissions" rather than a fatal error.
func (s *PermissionService) ResolvePermissions(ctx context.Context, email string) ([]models.ResolvedPermission, error) {
	ctx = ensureContext(ctx)

	grantRef, err := qualifiedTable(s.grantTable.Project, s.grantTable.Dataset, s.grantTable.Table)
	if err != nil {
		return []models.ResolvedPermission{}, nil
	}

	sqlText := fmt.Sprintf(
		"SELECT email, owner, mac_address, experiment, role, valid_from, valid_until, created_at, table_id FROM %s WHERE email = @email",
		grantRef,
	)
	rows, err := s.store.Query(ctx, sqlText, []warehouse.QueryParam{{Name: "email", Value: email}})
	if err != nil {
		s.log.Warn("grant lookup failed, degrading to empty permissions",
			zap.String("email", email), zap.Error(err))
		return []models.ResolvedPermission{}, nil
	}

	permissions := make([]models.ResolvedPermission, 0, len(rows))
	var failures []grantFailure

	for _, row := range rows {
		grant := grantFromRow(row)
		entries, err := s.resolveGrant(ctx, grant)
		if err != nil {
			failures = append(failures, grantFailure{TableID: grant.TableID, Reason: err.Error()})
			continue
		}
		permissions = append(permissions, entries...)
	}

	for _, f := range failures {
		s.log.Warn("grant skipped",
			zap.String("email", email),
			zap.String("table_id", f.TableID),
			zap.String("reason", f.Reason))
	}

	return permissions, nil
}

// resolveGrant turns one grant row into its experiment-level entries.
// A malformed table id fails just this grant. Admin grants expand to one
// entry per distinct experiment in the table; when discovery fails the
// grant degrades to a single entry under its own experiment field, because
// partial information beats none.
func (s *PermissionService) resolveGrant(ctx context.Context, grant models.Grant) ([]models.ResolvedPermission, error) {
	ref, err := models.ParseTableID(grant.TableID)
	if err != nil {
		metrics.PermissionExpansions.WithLabelValues("skipped").Inc()
		return nil, err
	}

	if !grant.IsAdmin() {
		return []models.ResolvedPermission{resolvedEntry(grant, ref, grant.Experiment, false)}, nil
	}

	experiments, err := s.listExperiments(ctx, ref)
	if err != nil {
		metrics.PermissionExpansions.WithLabelValues("fallback").Inc()
		s.log.Warn("admin expansion failed, falling back to grant's own experiment",
			zap.String("table_id", grant.TableID), zap.Error(err))
		return []models.ResolvedPermission{resolvedEntry(grant, ref, grant.Experiment, true)}, nil
	}

	metrics.PermissionExpansions.WithLabelValues("expanded").Inc()
	entries := make([]models.ResolvedPermission, 0, len(experiments))
	for _, name := range experiments {
		entries = append(entries, resolvedEntry(grant, ref, name, true))
	}
	return entries, nil
}

// listExperiments discovers the distinct experiment names present in a
// table. Ordering keeps repeated resolutions stable for the same data.
func (s *PermissionService) listExperiments(ctx context.Context, ref models.TableRef) ([]string, error) {
	tableRef, err := qualifiedTable(ref.Project, ref.Dataset, ref.Table)
	if err != nil {
		return nil, err
	}

	sqlText := fmt.Sprintf(
		"SELECT DISTINCT experiment_name FROM %s WHERE experiment_name IS NOT NULL ORDER BY experiment_name",
		tableRef,
	)
	rows, err := s.store.Query(ctx, sqlText, nil)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(rows))
	for _, row := range rows {
		if name := rowString(row, "experiment_name"); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

func resolvedEntry(grant models.Grant, ref models.TableRef, experiment string, isAdmin bool) models.ResolvedPermission {
	role := strings.ToLower(strings.TrimSpace(grant.Role))
	return models.ResolvedPermission{
		Email:          grant.Email,
		Owner:          grant.Owner,
		ExperimentName: experiment,
		MacAddress:     grant.MacAddress,
		Role:           role,
		ValidUntil:     grant.ValidUntil,
		ProjectID:      ref.Project,
		DatasetName:    ref.Dataset,
		TableID:        ref.Table,
		AccessLevel:    role,
		IsAdmin:        isAdmin,
	}
}

func grantFromRow(row warehouse.Row) models.Grant {
	return models.Grant{
		Email:      rowString(row, "email"),
		Owner:      rowString(row, "owner"),
		MacAddress: rowString(row, "mac_address"),
		Experiment: rowString(row, "experiment"),
		Role:       rowString(row, "role"),
		ValidFrom:  rowStringPtr(row, "valid_from"),
		ValidUntil: rowStringPtr(row, "valid_until"),
		CreatedAt:  rowStringPtr(row, "created_at"),
		TableID:    rowString(row, "table_id"),
	}
}
