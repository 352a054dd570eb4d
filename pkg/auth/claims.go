package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ventaflow/ventaflow-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID    uuid.UUID
	CompanyID uuid.UUID
	Role      enums.AppRole
	JTI       string
}

// AccessTokenClaims represents the typed JWT issued to clients. CompanyID
// pins every request to the caller's tenant.
type AccessTokenClaims struct {
	UserID    uuid.UUID     `json:"user_id"`
	CompanyID uuid.UUID     `json:"company_id"`
	Role      enums.AppRole `json:"role"`
	jwt.RegisteredClaims
}
