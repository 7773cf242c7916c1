package service

import (
	"strings"
	"testing"
	"time"

	"github.com/jpeggirl/gacha-dashboard/internal/domain/entity"
)

func TestGenerateMockData_Structure(t *testing.T) {
	payload := GenerateMockData("0xabc")

	if payload.Wallet != "0xabc" {
		t.Errorf("wallet = %q", payload.Wallet)
	}
	if payload.TotalPacks != 50 {
		t.Errorf("totalPacks = %d, want 50", payload.TotalPacks)
	}
	if payload.TotalSpent <= 0 {
		t.Errorf("totalSpent = %v, want > 0", payload.TotalSpent)
	}
	if payload.RTP <= 0 {
		t.Errorf("rtp = %v, want > 0", payload.RTP)
	}

	env := NormalizeList[entity.Transaction](payload.Transactions)
	if len(env.Items) != 50 {
		t.Fatalf("expected 50 transactions, got %d", len(env.Items))
	}

	knownPacks := make(map[string]float64, len(entity.PackDefinitions))
	for _, p := range entity.PackDefinitions {
		knownPacks[p.Name] = p.Price
	}

	cutoff := time.Now().AddDate(0, 0, -91)
	for i, tx := range env.Items {
		if !strings.HasPrefix(tx.TxHash, "0x") || len(tx.TxHash) != 66 {
			t.Errorf("tx %d: malformed hash %q", i, tx.TxHash)
		}
		price, ok := knownPacks[tx.PackName]
		if !ok {
			t.Errorf("tx %d: unknown pack %q", i, tx.PackName)
			continue
		}
		if tx.SpendAmount() != price {
			t.Errorf("tx %d: amount %v does not match %s price %v",
				i, tx.SpendAmount(), tx.PackName, price)
		}
		// Winnings stay inside the 80%-120% band.
		if tx.TotalWinnings < price*0.8-0.01 || tx.TotalWinnings > price*1.2+0.01 {
			t.Errorf("tx %d: winnings %v outside band for price %v", i, tx.TotalWinnings, price)
		}
		if tx.LoggedTime().Before(cutoff) {
			t.Errorf("tx %d: loggedAt %s older than the 90 day window", i, tx.LoggedAt)
		}
		if i > 0 && env.Items[i-1].LoggedAt < tx.LoggedAt {
			t.Errorf("transactions not sorted newest first at index %d", i)
		}
	}
}

func TestGenerateMockData_BreakdownConsistent(t *testing.T) {
	payload := GenerateMockData("0xabc")

	var count int
	var spent float64
	for _, b := range payload.PackBreakdown {
		count += b.Count
		spent += b.TotalSpent
	}
	if count != payload.TotalPacks {
		t.Errorf("breakdown counts sum to %d, want %d", count, payload.TotalPacks)
	}
	if diff := spent - payload.TotalSpent; diff > 0.01 || diff < -0.01 {
		t.Errorf("breakdown spend sums to %v, want %v", spent, payload.TotalSpent)
	}
}

func TestGenerateMockData_FreePacksValid(t *testing.T) {
	// The redemption list is probabilistic; validate shape whenever present.
	for i := 0; i < 20; i++ {
		payload := GenerateMockData("0xabc")
		redemptions := decodeFreePackList(payload.FreePackRedemptions)

		if payload.TotalFreePacksRedeemed != len(redemptions) {
			t.Fatalf("counter %d does not match list length %d",
				payload.TotalFreePacksRedeemed, len(redemptions))
		}
		if len(redemptions) > 4 {
			t.Fatalf("too many redemptions: %d", len(redemptions))
		}
		for _, r := range redemptions {
			if len(r.Code) != 8 {
				t.Fatalf("code %q should be 8 characters", r.Code)
			}
			if r.RedeemedAt == "" {
				t.Fatal("redemption missing redeemedAt")
			}
		}
	}
}

func TestGenerateMockData_AggregatesCleanly(t *testing.T) {
	stats := Aggregate(GenerateMockData("0xabc"), nil)
	if stats == nil {
		t.Fatal("expected stats from mock payload")
	}
	if len(stats.ChartData) == 0 {
		t.Error("expected a non-empty activity series")
	}
	if len(stats.PieData) == 0 {
		t.Error("expected a non-empty spend distribution")
	}
	if stats.Tier == "" {
		t.Error("expected a tier classification")
	}
}
