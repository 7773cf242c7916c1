package client

import (
	"bytes"
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/jpeggirl/gacha-dashboard/internal/domain/entity"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// SchemaGeneration identifies which generation of the pack-purchases
// schema a payload was decoded as.
type SchemaGeneration int

const (
	// SchemaUnknown marks a payload that matched neither generation.
	SchemaUnknown SchemaGeneration = iota
	// SchemaLegacy is the original shape: flat transactions, packAmount.
	SchemaLegacy
	// SchemaCurrent adds username, winnings, paginated envelopes and
	// free-pack redemptions.
	SchemaCurrent
)

func (g SchemaGeneration) String() string {
	switch g {
	case SchemaLegacy:
		return "legacy"
	case SchemaCurrent:
		return "current"
	default:
		return "unknown"
	}
}

// currentSchemaProbe holds the fields that only the current generation
// carries. Any of them present marks the payload as current.
type currentSchemaProbe struct {
	Username            *string             `json:"username"`
	TotalWinnings       *float64            `json:"totalWinnings"`
	RTP                 *float64            `json:"rtp"`
	InventoryWins       jsoniter.RawMessage `json:"inventoryWins"`
	FreePackRedemptions jsoniter.RawMessage `json:"freePackRedemptions"`
}

// DecodeWalletPayload parses a pack-purchases response body. The shape is
// resolved as a tagged variant: parse as the current generation, fall back
// to legacy, otherwise report the payload as unknown. Only malformed JSON
// is an error; an unfamiliar but valid object decodes to whatever fields
// match and degrades downstream to empty views.
func DecodeWalletPayload(body []byte) (*entity.RawWalletPayload, SchemaGeneration, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, SchemaUnknown, fmt.Errorf("pack-purchases response is not a JSON object")
	}

	var payload entity.RawWalletPayload
	if err := json.Unmarshal(trimmed, &payload); err != nil {
		return nil, SchemaUnknown, fmt.Errorf("failed to unmarshal pack-purchases response: %w", err)
	}

	var probe currentSchemaProbe
	if err := json.Unmarshal(trimmed, &probe); err == nil && probeIsCurrent(probe, payload) {
		return &payload, SchemaCurrent, nil
	}

	if payload.Wallet != "" || len(payload.Transactions) > 0 || len(payload.PackBreakdown) > 0 {
		return &payload, SchemaLegacy, nil
	}
	return &payload, SchemaUnknown, nil
}

func probeIsCurrent(probe currentSchemaProbe, payload entity.RawWalletPayload) bool {
	if probe.Username != nil || probe.TotalWinnings != nil || probe.RTP != nil {
		return true
	}
	if len(probe.InventoryWins) > 0 || len(probe.FreePackRedemptions) > 0 {
		return true
	}
	// Paginated transactions only ever came from the current API.
	trimmed := bytes.TrimSpace(payload.Transactions)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
