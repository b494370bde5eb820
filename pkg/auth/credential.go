package auth

import (
	"context"
)

// TokenCredential wraps a bearer token to implement the
// credentials.PerRPCCredentials interface.
type TokenCredential struct {
	token   string
	withTLS bool
}

// NewTokenCredential returns the given token wrapped in a TokenCredential.
func NewTokenCredential(token string, withTLS bool) TokenCredential {
	return TokenCredential{token, withTLS}
}

// RequireTransportSecurity implements the PerRPCCredentials interface.
func (c TokenCredential) RequireTransportSecurity() bool {
	return c.withTLS
}

// GetRequestMetadata implements the PerRPCCredentials interface. The token is
// attached to every outgoing request as "authorization: Bearer <token>".
func (c TokenCredential) GetRequestMetadata(
	ctx context.Context, uri ...string,
) (map[string]string, error) {
	return map[string]string{
		MetadataKey: bearerPrefix + c.token,
	}, nil
}
