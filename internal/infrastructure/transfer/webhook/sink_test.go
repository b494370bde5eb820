package webhooktransfer_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-escrow/internal/infrastructure/transfer"
	webhooktransfer "github.com/tdex-network/tdex-escrow/internal/infrastructure/transfer/webhook"
)

const secret = "webhooksecret"

type request struct {
	id string
}

func (r request) GetId() string { return r.id }
func (request) GetKind() string { return "order_execution" }
func (request) GetRecipient() string { return "bob.near" }
func (request) GetAmount() string { return "250" }
func (request) GetToken() string { return "" }
func (request) GetOrderId() string { return "order-1" }
func (request) GetRequestedAt() int64 { return 1700000000000000000 }

type receiver struct {
	lock     sync.Mutex
	payloads []transfer.Payload
	subjects []string
}

func (r *receiver) handler(status int) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if req.Header.Get("Content-Type") != "application/json" {
			w.WriteHeader(http.StatusUnsupportedMediaType)
			return
		}
		buf, _ := io.ReadAll(req.Body)
		payload, err := transfer.NewPayloadFromBytes(buf)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		r.lock.Lock()
		defer r.lock.Unlock()
		r.payloads = append(r.payloads, *payload)

		if auth := req.Header.Get("Authorization"); auth != "" {
			tokenStr := strings.TrimPrefix(auth, "Bearer ")
			claims := &jwt.StandardClaims{}
			token, err := jwt.ParseWithClaims(
				tokenStr, claims, func(*jwt.Token) (interface{}, error) {
					return []byte(secret), nil
				},
			)
			if err != nil || !token.Valid {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			r.subjects = append(r.subjects, claims.Subject)
		}
		w.WriteHeader(status)
	}
}

func TestWebhookTransferSink(t *testing.T) {
	t.Run("unsecured", func(t *testing.T) {
		recv := &receiver{}
		server := httptest.NewServer(recv.handler(http.StatusOK))
		defer server.Close()

		sink, err := webhooktransfer.NewTransferSink(server.URL, "", 0)
		require.NoError(t, err)
		defer sink.Close()

		err = sink.SendTransfer(context.Background(), request{"t1"})
		require.NoError(t, err)

		require.Len(t, recv.payloads, 1)
		require.Equal(t, "t1", recv.payloads[0].Id)
		require.Equal(t, "bob.near", recv.payloads[0].Recipient)
		require.Equal(t, "250", recv.payloads[0].Amount)
		require.Equal(t, "order-1", recv.payloads[0].OrderId)
		require.Empty(t, recv.subjects)
	})

	t.Run("secured", func(t *testing.T) {
		recv := &receiver{}
		server := httptest.NewServer(recv.handler(http.StatusAccepted))
		defer server.Close()

		sink, err := webhooktransfer.NewTransferSink(server.URL, secret, 0)
		require.NoError(t, err)
		defer sink.Close()

		err = sink.SendTransfer(context.Background(), request{"t2"})
		require.NoError(t, err)
		require.Equal(t, []string{"t2"}, recv.subjects)
	})
}

func TestFailingWebhookTransferSink(t *testing.T) {
	t.Run("invalid_endpoint", func(t *testing.T) {
		sink, err := webhooktransfer.NewTransferSink("not an url", "", 0)
		require.ErrorIs(t, err, webhooktransfer.ErrInvalidEndpoint)
		require.Nil(t, sink)
	})

	t.Run("unexpected_status", func(t *testing.T) {
		recv := &receiver{}
		server := httptest.NewServer(recv.handler(http.StatusInternalServerError))
		defer server.Close()

		sink, err := webhooktransfer.NewTransferSink(server.URL, "", 0)
		require.NoError(t, err)

		err = sink.SendTransfer(context.Background(), request{"t3"})
		require.Error(t, err)
		require.True(t, errors.Is(err, webhooktransfer.ErrUnexpectedStatus))
	})

	t.Run("unreachable", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()

		sink, err := webhooktransfer.NewTransferSink(url, "", 0)
		require.NoError(t, err)

		err = sink.SendTransfer(context.Background(), request{"t4"})
		require.Error(t, err)
	})
}
