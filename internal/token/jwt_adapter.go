package token

import (
	"vendra/internal/platform/middleware"
)

// JWTServiceAdapter bridges the JWT service to the auth middleware contract.
type JWTServiceAdapter struct {
	service *JWTService
}

func NewJWTServiceAdapter(service *JWTService) *JWTServiceAdapter {
	return &JWTServiceAdapter{service: service}
}

func (a *JWTServiceAdapter) ValidateToken(tokenString string) (*middleware.OperatorClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return &middleware.OperatorClaims{
		Operator: claims.Operator,
		Role:     claims.Role,
	}, nil
}
