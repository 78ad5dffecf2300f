package types

import "github.com/google/uuid"

// TokenClaims is what the auth middleware extracts from a bearer token.
type TokenClaims struct {
	UserID uuid.UUID
}
