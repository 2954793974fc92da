package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/annavdbeek/plantportal/internal/models"
	"github.com/annavdbeek/plantportal/internal/warehouse"
)

var grantTable = models.TableRef{Project: "proj", Dataset: "access", Table: "permissions"}

func grantRow(email, role, experiment, tableID string, validUntil *string) warehouse.Row {
	row := warehouse.Row{
		"email":       warehouse.String(email),
		"owner":       warehouse.String("lab-a"),
		"mac_address": warehouse.String("aa:bb:cc:dd:ee:ff"),
		"experiment":  warehouse.String(experiment),
		"role":        warehouse.String(role),
		"table_id":    warehouse.String(tableID),
		"valid_until": warehouse.Null(),
	}
	if validUntil != nil {
		row["valid_until"] = warehouse.String(*validUntil)
	}
	return row
}

func experimentRows(names ...string) []warehouse.Row {
	rows := make([]warehouse.Row, len(names))
	for i, n := range names {
		rows[i] = warehouse.Row{"experiment_name": warehouse.String(n)}
	}
	return rows
}

func TestResolvePermissionsReadGrant(t *testing.T) {
	store := &stubStore{queryFn: func(sqlText string, params []warehouse.QueryParam) ([]warehouse.Row, error) {
		if strings.Contains(sqlText, "FROM `proj.access.permissions`") {
			require.Equal(t, "r1@example.com", paramValue(params, "email"))
			return []warehouse.Row{grantRow("r1@example.com", "read", "exp_x", "proj.ds.tbl", nil)}, nil
		}
		t.Fatalf("unexpected query: %s", sqlText)
		return nil, nil
	}}

	svc, err := NewPermissionService(store, grantTable)
	require.NoError(t, err)

	perms, err := svc.ResolvePermissions(context.Background(), "r1@example.com")
	require.NoError(t, err)
	require.Len(t, perms, 1)
	require.Equal(t, "exp_x", perms[0].ExperimentName)
	require.Equal(t, "read", perms[0].AccessLevel)
	require.False(t, perms[0].IsAdmin)
	require.Equal(t, "proj", perms[0].ProjectID)
	require.Equal(t, "ds", perms[0].DatasetName)
	require.Equal(t, "tbl", perms[0].TableID)
}

func TestResolvePermissionsAdminExpansion(t *testing.T) {
	until := "2025-06-01T00:00:00Z"
	store := &stubStore{queryFn: func(sqlText string, params []warehouse.QueryParam) ([]warehouse.Row, error) {
		switch {
		case strings.Contains(sqlText, "FROM `proj.access.permissions`"):
			return []warehouse.Row{grantRow("r1@example.com", "admin", "stale", "proj.ds.tbl", &until)}, nil
		case strings.Contains(sqlText, "SELECT DISTINCT experiment_name FROM `proj.ds.tbl`"):
			return experimentRows("exp_a", "exp_b", "exp_c"), nil
		}
		t.Fatalf("unexpected query: %s", sqlText)
		return nil, nil
	}}

	svc, err := NewPermissionService(store, grantTable)
	require.NoError(t, err)

	perms, err := svc.ResolvePermissions(context.Background(), "r1@example.com")
	require.NoError(t, err)
	require.Len(t, perms, 3)

	var names []string
	for _, p := range perms {
		names = append(names, p.ExperimentName)
		require.True(t, p.IsAdmin)
		require.Equal(t, "lab-a", p.Owner)
		require.Equal(t, "tbl", p.TableID)
		require.NotNil(t, p.ValidUntil)
		require.Equal(t, until, *p.ValidUntil)
	}
	require.ElementsMatch(t, []string{"exp_a", "exp_b", "exp_c"}, names)
}

func TestResolvePermissionsUnknownEmail(t *testing.T) {
	store := &stubStore{} // every query returns zero rows

	svc, err := NewPermissionService(store, grantTable)
	require.NoError(t, err)

	perms, err := svc.ResolvePermissions(context.Background(), "nonexistent@example.com")
	require.NoError(t, err)
	require.Empty(t, perms)
}

func TestResolvePermissionsStoreFailureDegradesToEmpty(t *testing.T) {
	store := &stubStore{queryFn: func(string, []warehouse.QueryParam) ([]warehouse.Row, error) {
		return nil, &warehouse.QueryError{Op: "query", Err: errors.New("connection refused")}
	}}

	svc, err := NewPermissionService(store, grantTable)
	require.NoError(t, err)

	perms, err := svc.ResolvePermissions(context.Background(), "r1@example.com")
	require.NoError(t, err)
	require.Empty(t, perms)
}

func TestResolvePermissionsMalformedTableIDSkipsOnlyThatGrant(t *testing.T) {
	store := &stubStore{queryFn: func(sqlText string, params []warehouse.QueryParam) ([]warehouse.Row, error) {
		if strings.Contains(sqlText, "FROM `proj.access.permissions`") {
			return []warehouse.Row{
				grantRow("r1@example.com", "read", "exp_bad", "only-two.segments", nil),
				grantRow("r1@example.com", "read", "exp_ok", "proj.ds.tbl", nil),
			}, nil
		}
		return nil, nil
	}}

	svc, err := NewPermissionService(store, grantTable)
	require.NoError(t, err)

	perms, err := svc.ResolvePermissions(context.Background(), "r1@example.com")
	require.NoError(t, err)
	require.Len(t, perms, 1)
	require.Equal(t, "exp_ok", perms[0].ExperimentName)
}

func TestResolvePermissionsAdminDiscoveryFailureFallsBack(t *testing.T) {
	store := &stubStore{queryFn: func(sqlText string, params []warehouse.QueryParam) ([]warehouse.Row, error) {
		switch {
		case strings.Contains(sqlText, "FROM `proj.access.permissions`"):
			return []warehouse.Row{grantRow("r1@example.com", "admin", "exp_static", "proj.ds.tbl", nil)}, nil
		case strings.Contains(sqlText, "SELECT DISTINCT"):
			return nil, &warehouse.QueryError{Op: "query", Err: errors.New("table has no experiment_name column")}
		}
		return nil, nil
	}}

	svc, err := NewPermissionService(store, grantTable)
	require.NoError(t, err)

	perms, err := svc.ResolvePermissions(context.Background(), "r1@example.com")
	require.NoError(t, err)
	require.Len(t, perms, 1)
	require.Equal(t, "exp_static", perms[0].ExperimentName)
	require.True(t, perms[0].IsAdmin)
}

func TestResolvePermissionsIdempotentAcrossRuns(t *testing.T) {
	store := &stubStore{queryFn: func(sqlText string, params []warehouse.QueryParam) ([]warehouse.Row, error) {
		switch {
		case strings.Contains(sqlText, "FROM `proj.access.permissions`"):
			return []warehouse.Row{grantRow("r1@example.com", "admin", "", "proj.ds.tbl", nil)}, nil
		case strings.Contains(sqlText, "SELECT DISTINCT"):
			return experimentRows("exp_b", "exp_a"), nil
		}
		return nil, nil
	}}

	svc, err := NewPermissionService(store, grantTable)
	require.NoError(t, err)

	first, err := svc.ResolvePermissions(context.Background(), "r1@example.com")
	require.NoError(t, err)
	second, err := svc.ResolvePermissions(context.Background(), "r1@example.com")
	require.NoError(t, err)

	nameSet := func(perms []models.ResolvedPermission) []string {
		var names []string
		for _, p := range perms {
			names = append(names, p.ExperimentName)
		}
		return names
	}
	require.ElementsMatch(t, nameSet(first), nameSet(second))
}

func TestNewPermissionServiceRequiresStore(t *testing.T) {
	_, err := NewPermissionService(nil, grantTable)
	require.Error(t, err)
}

func TestNewPermissionServiceRejectsUnsafeTable(t *testing.T) {
	_, err := NewPermissionService(&stubStore{}, models.TableRef{Project: "p", Dataset: "d", Table: "t; DROP"})
	require.Error(t, err)
}
