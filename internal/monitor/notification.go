// Package monitor runs the log-subscription stream and the
// pool-qualification pipeline over it.
package monitor

import (
	"encoding/json"
	"fmt"
)

// subscribeRequest is the logsSubscribe frame. Field order matters: the
// provider expects the canonical JSON-RPC layout.
type subscribeRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int           `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

// mentionsFilter is the first positional subscription parameter.
type mentionsFilter struct {
	Mentions []string `json:"mentions"`
}

// commitmentConfig is the second positional subscription parameter.
type commitmentConfig struct {
	Commitment string `json:"commitment"`
}

// subscribeFrame encodes the single subscription request sent as the
// first outbound frame of every session.
func subscribeFrame(mentions []string, commitment string) ([]byte, error) {
	req := subscribeRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "logsSubscribe",
		Params: []interface{}{
			mentionsFilter{Mentions: mentions},
			commitmentConfig{Commitment: commitment},
		},
	}
	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal subscribe request: %w", err)
	}
	return data, nil
}

// Notification is one decoded logs-subscription message.
type Notification struct {
	Signature string
	Slot      uint64
	Logs      []string
}

// logsNotification mirrors the provider's notification envelope.
type logsNotification struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  struct {
		Subscription int64 `json:"subscription"`
		Result       struct {
			Signature string   `json:"signature"`
			Slot      uint64   `json:"slot"`
			Logs      []string `json:"logs"`
		} `json:"result"`
	} `json:"params"`
}

// decodeNotification parses an inbound text frame. Frames carrying
// another method (subscription confirmations, other notification types)
// return ok=false and are skipped silently; a frame that is not valid
// JSON returns an error so the read loop can log the drop.
func decodeNotification(data []byte) (Notification, bool, error) {
	var msg logsNotification
	if err := json.Unmarshal(data, &msg); err != nil {
		return Notification{}, false, fmt.Errorf("decode frame: %w", err)
	}
	if msg.Method != "logsNotification" {
		return Notification{}, false, nil
	}
	return Notification{
		Signature: msg.Params.Result.Signature,
		Slot:      msg.Params.Result.Slot,
		Logs:      msg.Params.Result.Logs,
	}, true, nil
}
