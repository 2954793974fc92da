package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/annavdbeek/plantportal/internal/models"
	"github.com/annavdbeek/plantportal/internal/warehouse"
	apperrors "github.com/annavdbeek/plantportal/pkg/errors"
	"github.com/annavdbeek/plantportal/pkg/logger"
)

// AuthService checks researcher credentials against the warehouse user
// table. Passwords are compared in plaintext by design; this portal is a
// display-filtering layer, not a security boundary, and issues no tokens.
type AuthService struct {
	store     warehouse.Store
	userTable models.TableRef
	log       *zap.Logger
}

// NewAuthService wires the login check against the configured user table.
func NewAuthService(store warehouse.Store, userTable models.TableRef) (*AuthService, error) {
	if store == nil {
		return nil, errors.New("auth service: store is required")
	}
	if _, err := qualifiedTable(userTable.Project, userTable.Dataset, userTable.Table); err != nil {
		return nil, fmt.Errorf("auth service: user table: %w", err)
	}
	return &AuthService{
		store:     store,
		userTable: userTable,
		log:       logger.WithModule("auth"),
	}, nil
}

// Login returns the matching user record or ErrInvalidCredentials. A store
// failure surfaces as warehouse-unavailable so the client can distinguish
// an outage from a typo.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, error) {
	ctx = ensureContext(ctx)

	tableRef, err := qualifiedTable(s.userTable.Project, s.userTable.Dataset, s.userTable.Table)
	if err != nil {
		return nil, apperrors.ErrInternalServer.WithInternal(err)
	}

	sqlText := fmt.Sprintf(
		"SELECT * FROM %s WHERE email = @email AND password = @password LIMIT 1",
		tableRef,
	)
	rows, err := s.store.Query(ctx, sqlText, []warehouse.QueryParam{
		{Name: "email", Value: email},
		{Name: "password", Value: password},
	})
	if err != nil {
		s.log.Warn("login query failed", zap.String("email", email), zap.Error(err))
		return nil, apperrors.ErrWarehouseUnavailable.WithInternal(err)
	}
	if len(rows) == 0 {
		return nil, apperrors.ErrInvalidCredentials
	}

	row := rows[0]
	return &models.User{
		Email: rowString(row, "email"),
		Name:  rowString(row, "name"),
		Owner: rowString(row, "owner"),
	}, nil
}
