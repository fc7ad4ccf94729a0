package auth

import "sation/internal/domain/models"

// JWTVerifier validates bearer tokens and yields the claims whose subject
// becomes the owner id for document queries.
type JWTVerifier interface {
	// VerifyToken validates a JWT token string and returns the parsed claims.
	// Returns domain.ErrUnauthorized if the token is invalid, expired, or badly signed.
	VerifyToken(tokenString string) (*models.Claims, error)

	// Close releases any resources held by the verifier.
	Close() error
}
