package controllers

import (
	"context"

	"github.com/google/uuid"

	"github.com/ventaflow/ventaflow-backend/api/middleware"
	pkgerrors "github.com/ventaflow/ventaflow-backend/pkg/errors"
)

// callerIDs extracts the authenticated user and tenant seeded by the
// auth middleware.
func callerIDs(ctx context.Context) (userID, companyID uuid.UUID, err error) {
	userID, parseErr := uuid.Parse(middleware.UserIDFromContext(ctx))
	if parseErr != nil {
		return uuid.Nil, uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	companyID, parseErr = uuid.Parse(middleware.CompanyIDFromContext(ctx))
	if parseErr != nil {
		return uuid.Nil, uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "company context missing")
	}
	return userID, companyID, nil
}

func parsePathUUID(raw, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid "+field)
	}
	return id, nil
}
