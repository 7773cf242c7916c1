package service

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/jpeggirl/gacha-dashboard/internal/domain/entity"
)

func timeFramePayload() *entity.RawWalletPayload {
	return &entity.RawWalletPayload{
		Wallet:        "0xabc",
		TotalSpent:    330,
		TotalPacks:    3,
		TotalWinnings: 400,
		RTP:           121.21,
		PackBreakdown: []entity.PackBreakdownEntry{
			{PackName: "Starter Pack", PackAmount: 30, Count: 2, TotalSpent: 60},
			{PackName: "Great Pack", PackAmount: 150, Count: 1, TotalSpent: 150},
		},
		Transactions: json.RawMessage(`[
			{"txHash":"0xold","amount":150,"totalWinnings":200,"loggedAt":"2025-03-01T10:00:00Z"},
			{"txHash":"0xmid","amount":30,"totalWinnings":20,"loggedAt":"2025-05-20T10:00:00Z"},
			{"txHash":"0xnew","amount":30,"totalWinnings":50,"loggedAt":"2025-06-01T10:00:00Z"}
		]`),
		FreePackRedemptions:    json.RawMessage(`[{"code":"WELCOME1","redeemedAt":"2024-01-01T00:00:00Z"}]`),
		TotalFreePacksRedeemed: 1,
	}
}

func TestFilterTimeFrame_AllReturnsPayloadUnchanged(t *testing.T) {
	payload := timeFramePayload()
	for _, frame := range []string{entity.TimeFrameAll, "", "weird"} {
		if got := FilterTimeFrame(payload, frame); got != payload {
			t.Errorf("frame %q should return the payload unchanged", frame)
		}
	}
}

func TestFilterTimeFrame_SevenDays(t *testing.T) {
	now := time.Date(2025, 6, 3, 12, 0, 0, 0, time.UTC)

	got := filterTimeFrameAt(timeFramePayload(), entity.TimeFrame7Days, now)

	if got.TotalPacks != 1 {
		t.Fatalf("totalPacks = %d, want 1 (only 0xnew survives)", got.TotalPacks)
	}
	if got.TotalSpent != 30 {
		t.Errorf("totalSpent = %v, want 30", got.TotalSpent)
	}
	if got.TotalWinnings != 0 || got.RTP != 0 {
		t.Errorf("winnings/rtp should be zeroed for recomputation, got %v/%v",
			got.TotalWinnings, got.RTP)
	}

	env := NormalizeList[entity.Transaction](got.Transactions)
	if len(env.Items) != 1 || env.Items[0].TxHash != "0xnew" {
		t.Errorf("filtered transactions = %+v", env.Items)
	}

	if len(got.PackBreakdown) != 1 || got.PackBreakdown[0].PackName != "Starter Pack" {
		t.Fatalf("breakdown = %+v, want only Starter Pack", got.PackBreakdown)
	}
	if got.PackBreakdown[0].Count != 1 || got.PackBreakdown[0].TotalSpent != 30 {
		t.Errorf("breakdown entry = %+v", got.PackBreakdown[0])
	}
}

func TestFilterTimeFrame_ThirtyDays(t *testing.T) {
	now := time.Date(2025, 6, 3, 12, 0, 0, 0, time.UTC)

	got := filterTimeFrameAt(timeFramePayload(), entity.TimeFrame30Days, now)

	if got.TotalPacks != 2 || got.TotalSpent != 60 {
		t.Errorf("30d window: packs=%d spent=%v, want 2/60", got.TotalPacks, got.TotalSpent)
	}
}

func TestFilterTimeFrame_KeepsLifetimeFreePackData(t *testing.T) {
	now := time.Date(2025, 6, 3, 12, 0, 0, 0, time.UTC)

	got := filterTimeFrameAt(timeFramePayload(), entity.TimeFrame7Days, now)

	if got.TotalFreePacksRedeemed != 1 {
		t.Errorf("free pack counter should survive filtering, got %d", got.TotalFreePacksRedeemed)
	}
	if len(got.FreePackRedemptions) == 0 {
		t.Error("redemption list should survive filtering")
	}
}

func TestFilterTimeFrame_DoesNotMutateOriginal(t *testing.T) {
	payload := timeFramePayload()
	now := time.Date(2025, 6, 3, 12, 0, 0, 0, time.UTC)

	filterTimeFrameAt(payload, entity.TimeFrame7Days, now)

	if payload.TotalSpent != 330 || payload.TotalPacks != 3 {
		t.Errorf("original payload mutated: %+v", payload)
	}
}

func TestFilterTimeFrame_UnmatchedAmountDropsFromBreakdown(t *testing.T) {
	payload := timeFramePayload()
	payload.Transactions = json.RawMessage(`[
		{"txHash":"0xodd","amount":77,"totalWinnings":10,"loggedAt":"2025-06-01T10:00:00Z"}
	]`)
	now := time.Date(2025, 6, 3, 12, 0, 0, 0, time.UTC)

	got := filterTimeFrameAt(payload, entity.TimeFrame7Days, now)

	if got.TotalPacks != 1 || got.TotalSpent != 77 {
		t.Errorf("totals should still count the odd transaction: %+v", got)
	}
	if len(got.PackBreakdown) != 0 {
		t.Errorf("amount matching no pack should fall out of the breakdown, got %+v", got.PackBreakdown)
	}
}
