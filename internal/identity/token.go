package identity

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims are the access token claims worth attaching to log lines.
type TokenClaims struct {
	Subject  string
	Username string
	ClientID string
}

// ParseTokenClaims reads the claims of a provider-issued access token WITHOUT verifying
// its signature. The token has just been handed to us by the provider; the claims are
// only used for diagnostics and must never drive an authorization decision.
func ParseTokenClaims(accessToken string) (TokenClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return TokenClaims{}, fmt.Errorf("failed to parse access token claims: %w", err)
	}

	subject, _ := claims.GetSubject()
	username, _ := claims["username"].(string)
	clientID, _ := claims["client_id"].(string)
	return TokenClaims{Subject: subject, Username: username, ClientID: clientID}, nil
}
