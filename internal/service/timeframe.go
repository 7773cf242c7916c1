package service

import (
	"time"

	"github.com/jpeggirl/gacha-dashboard/internal/domain/entity"
)

// FilterTimeFrame restricts a payload to the last 7 or 30 days, recomputing
// totalSpent, totalPacks and the pack breakdown from the surviving
// transactions. Free-pack fields and inventory are deliberately left
// untouched, since redemptions are lifetime data. "all", the empty frame and
// unknown frames return the payload as-is. Tier classification should keep
// using the unfiltered lifetime total; Aggregate takes it separately.
func FilterTimeFrame(payload *entity.RawWalletPayload, frame string) *entity.RawWalletPayload {
	return filterTimeFrameAt(payload, frame, time.Now())
}

func filterTimeFrameAt(payload *entity.RawWalletPayload, frame string, now time.Time) *entity.RawWalletPayload {
	if payload == nil {
		return nil
	}

	var days int
	switch frame {
	case entity.TimeFrame7Days:
		days = 7
	case entity.TimeFrame30Days:
		days = 30
	default:
		return payload
	}
	cutoff := now.AddDate(0, 0, -days)

	txEnv := NormalizeList[entity.Transaction](payload.Transactions)
	filtered := make([]entity.Transaction, 0, len(txEnv.Items))
	for _, tx := range txEnv.Items {
		if !tx.LoggedTime().Before(cutoff) {
			filtered = append(filtered, tx)
		}
	}

	totalSpent := 0.0
	for _, tx := range filtered {
		totalSpent += tx.SpendAmount()
	}

	// Rebuild the breakdown by matching each surviving transaction back to
	// a pack via its amount. Transactions whose amount matches no pack
	// definition fall out of the breakdown, same as they always have.
	breakdownByName := make(map[string]*entity.PackBreakdownEntry)
	nameOrder := make([]string, 0)
	for _, tx := range filtered {
		packInfo, ok := findPackByAmount(payload.PackBreakdown, tx.SpendAmount())
		if !ok {
			continue
		}
		b, seen := breakdownByName[packInfo.PackName]
		if !seen {
			b = &entity.PackBreakdownEntry{
				PackName:   packInfo.PackName,
				PackAmount: tx.SpendAmount(),
			}
			breakdownByName[packInfo.PackName] = b
			nameOrder = append(nameOrder, packInfo.PackName)
		}
		b.Count++
		b.TotalSpent += tx.SpendAmount()
		b.TotalWinnings += tx.TotalWinnings
	}

	breakdown := make([]entity.PackBreakdownEntry, 0, len(nameOrder))
	for _, name := range nameOrder {
		b := breakdownByName[name]
		if b.TotalSpent > 0 {
			b.RTP = b.TotalWinnings / b.TotalSpent * 100
		}
		breakdown = append(breakdown, *b)
	}

	txRaw, err := jsonCodec.Marshal(filtered)
	if err != nil {
		// Marshalling a decoded slice back cannot realistically fail; keep
		// the original window rather than dropping the wallet.
		return payload
	}

	out := *payload
	out.TotalSpent = totalSpent
	out.TotalPacks = len(filtered)
	out.TotalWinnings = 0 // recomputed from the filtered transactions by Aggregate
	out.RTP = 0
	out.PackBreakdown = breakdown
	out.Transactions = txRaw
	return &out
}

func findPackByAmount(breakdown []entity.PackBreakdownEntry, amount float64) (entity.PackBreakdownEntry, bool) {
	for _, b := range breakdown {
		if b.PackAmount == amount {
			return b, true
		}
	}
	return entity.PackBreakdownEntry{}, false
}
