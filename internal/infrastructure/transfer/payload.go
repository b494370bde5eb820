package transfer

import (
	"encoding/json"

	"github.com/tdex-network/tdex-escrow/internal/core/ports"
)

// Payload is the wire representation of a transfer request shared by the
// sinks that serialize it.
type Payload struct {
	Id          string `json:"id"`
	Kind        string `json:"kind"`
	Recipient   string `json:"recipient"`
	Amount      string `json:"amount"`
	Token       string `json:"token,omitempty"`
	OrderId     string `json:"order_id,omitempty"`
	RequestedAt int64  `json:"requested_at"`
}

func NewPayload(req ports.TransferRequest) Payload {
	return Payload{
		Id:          req.GetId(),
		Kind:        req.GetKind(),
		Recipient:   req.GetRecipient(),
		Amount:      req.GetAmount(),
		Token:       req.GetToken(),
		OrderId:     req.GetOrderId(),
		RequestedAt: req.GetRequestedAt(),
	}
}

func (p Payload) Serialize() []byte {
	buf, _ := json.Marshal(p)
	return buf
}

func NewPayloadFromBytes(buf []byte) (*Payload, error) {
	p := &Payload{}
	if err := json.Unmarshal(buf, p); err != nil {
		return nil, err
	}
	return p, nil
}
