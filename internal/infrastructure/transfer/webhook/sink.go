// Package webhooktransfer provides a transfer sink that POSTs every payout
// request to an HTTP endpoint. If a secret is configured, requests carry a
// HS256 bearer token whose subject is the transfer id.
package webhooktransfer

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-escrow/internal/core/ports"
	"github.com/tdex-network/tdex-escrow/internal/infrastructure/transfer"
)

const (
	DefaultRequestTimeout = 15 * time.Second
	IssuerClaim           = "escrowd"
)

type sink struct {
	endpoint   string
	secret     string
	httpClient *client
}

func NewTransferSink(
	endpoint, secret string, requestTimeout time.Duration,
) (ports.TransferSink, error) {
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, ErrInvalidEndpoint
	}
	if requestTimeout <= 0 {
		requestTimeout = DefaultRequestTimeout
	}
	return &sink{
		endpoint:   endpoint,
		secret:     secret,
		httpClient: newHTTPClient(requestTimeout),
	}, nil
}

func (s *sink) SendTransfer(ctx context.Context, req ports.TransferRequest) error {
	headers := map[string]string{
		"Content-Type": "application/json",
	}
	if s.isSecured() {
		token, err := s.signToken(req.GetId())
		if err != nil {
			return err
		}
		headers["Authorization"] = fmt.Sprintf("Bearer %s", token)
	}

	body := transfer.NewPayload(req).Serialize()
	status, resp, err := s.httpClient.post(ctx, s.endpoint, body, headers)
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return fmt.Errorf("%w %d: %s", ErrUnexpectedStatus, status, resp)
	}

	log.Debugf("transfer %s delivered to webhook", req.GetId())
	return nil
}

func (s *sink) Close() {
	s.httpClient.CloseIdleConnections()
}

func (s *sink) isSecured() bool {
	return len(s.secret) > 0
}

func (s *sink) signToken(transferId string) (string, error) {
	claims := jwt.StandardClaims{
		Issuer:   IssuerClaim,
		Subject:  transferId,
		IssuedAt: time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}
