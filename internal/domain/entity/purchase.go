package entity

import (
	"encoding/json"
	"time"
)

// RawWalletPayload mirrors the pack-purchases response of the admin API.
// Two schema generations exist in the wild: the current one carries
// username, totalWinnings, rtp, paginated transactions/inventoryWins and
// freePackRedemptions; the legacy one only has flat transactions with
// packAmount. List-shaped fields stay as raw JSON until the normalizer
// decides which shape they actually are.
type RawWalletPayload struct {
	Wallet                 string               `json:"wallet"`
	Username               string               `json:"username,omitempty"`
	TotalSpent             float64              `json:"totalSpent"`
	TotalPacks             int                  `json:"totalPacks"`
	TotalWinnings          float64              `json:"totalWinnings,omitempty"`
	RTP                    float64              `json:"rtp,omitempty"`
	PackBreakdown          []PackBreakdownEntry `json:"packBreakdown,omitempty"`
	Transactions           json.RawMessage      `json:"transactions,omitempty"`
	Inventory              json.RawMessage      `json:"inventory,omitempty"`
	InventoryWins          json.RawMessage      `json:"inventoryWins,omitempty"`
	TotalFreePacksRedeemed int                  `json:"totalFreePacksRedeemed,omitempty"`
	FreePackRedemptions    json.RawMessage      `json:"freePackRedemptions,omitempty"`
}

// InventoryRaw returns whichever inventory field the payload carries.
// The current API calls it inventoryWins, older responses used inventory.
func (p *RawWalletPayload) InventoryRaw() json.RawMessage {
	if len(p.InventoryWins) > 0 {
		return p.InventoryWins
	}
	return p.Inventory
}

// Transaction is a single logged pack purchase. Amount is the current field
// name, PackAmount the legacy one; both are pointers so that the resolution
// chain can tell absence apart from an actual zero.
type Transaction struct {
	TxHash        string   `json:"txHash"`
	Amount        *float64 `json:"amount,omitempty"`
	PackAmount    *float64 `json:"packAmount,omitempty"`
	PackName      string   `json:"packName,omitempty"`
	Collection    string   `json:"collection,omitempty"`
	TotalWinnings float64  `json:"totalWinnings,omitempty"`
	IsFreePack    *bool    `json:"isFreePack,omitempty"`
	LoggedAt      string   `json:"loggedAt"`
}

// SpendAmount resolves the spend value: amount, then legacy packAmount,
// then zero.
func (t Transaction) SpendAmount() float64 {
	if t.Amount != nil {
		return *t.Amount
	}
	if t.PackAmount != nil {
		return *t.PackAmount
	}
	return 0
}

// LoggedTime parses the loggedAt timestamp, keeping the offset the source
// reported rather than normalizing to UTC. Unparseable input yields the
// zero time.
func (t Transaction) LoggedTime() time.Time {
	ts, err := time.Parse(time.RFC3339, t.LoggedAt)
	if err != nil {
		return time.Time{}
	}
	return ts
}

// PackBreakdownEntry is a per-pack aggregate recomputed on every fetch.
type PackBreakdownEntry struct {
	PackName      string  `json:"packName"`
	PackAmount    float64 `json:"packAmount"`
	Count         int     `json:"count"`
	TotalSpent    float64 `json:"totalSpent"`
	TotalWinnings float64 `json:"totalWinnings,omitempty"`
	RTP           float64 `json:"rtp,omitempty"`
}

// FreePackRedemption is a promotional code redemption, correlated to a
// transaction by txHash when the API provides one.
type FreePackRedemption struct {
	Code       string          `json:"code"`
	TxHash     string          `json:"txHash,omitempty"`
	PresetID   json.RawMessage `json:"presetId,omitempty"`
	RedeemedAt string          `json:"redeemedAt,omitempty"`
}

// RedeemedTime parses redeemedAt; missing or malformed dates map to the
// epoch so they sort last in the newest-first free pack list.
func (f FreePackRedemption) RedeemedTime() time.Time {
	ts, err := time.Parse(time.RFC3339, f.RedeemedAt)
	if err != nil {
		return time.Unix(0, 0)
	}
	return ts
}

// InventoryItem is a single card/NFT won from a pack.
type InventoryItem struct {
	ID      string           `json:"id,omitempty"`
	UUID    string           `json:"uuid,omitempty"`
	Tier    string           `json:"tier,omitempty"`
	Value   float64          `json:"value,omitempty"`
	Details InventoryDetails `json:"details,omitempty"`
	Variety string           `json:"variety,omitempty"`
}

// InventoryDetails describes the card behind an inventory item.
type InventoryDetails struct {
	Name  string      `json:"name,omitempty"`
	Img   string      `json:"img,omitempty"`
	Year  json.Number `json:"year,omitempty"`
	Grade string      `json:"grade,omitempty"`
	Set   string      `json:"set,omitempty"`
}
