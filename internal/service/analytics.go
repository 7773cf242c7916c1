package service

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jpeggirl/gacha-dashboard/internal/domain/entity"
)

// Aggregate turns a raw wallet payload into the stats the dashboard
// renders. lifetimeTotalSpent, when non-nil, drives tier classification
// instead of the (possibly time-frame filtered) payload total. A nil
// payload yields nil stats; callers treat that as "nothing to render",
// not as an error. Aggregation itself never fails: missing numerics are
// zero, missing lists are empty.
func Aggregate(payload *entity.RawWalletPayload, lifetimeTotalSpent *float64) *entity.WalletStats {
	if payload == nil {
		return nil
	}

	txEnv := NormalizeList[entity.Transaction](payload.Transactions)
	invEnv := NormalizeList[entity.InventoryItem](payload.InventoryRaw())
	redemptions := decodeFreePackList(payload.FreePackRedemptions)

	freeHashes := make(map[string]struct{}, len(redemptions))
	for _, r := range redemptions {
		if r.TxHash != "" {
			freeHashes[strings.ToLower(r.TxHash)] = struct{}{}
		}
	}

	totalSpent := payload.TotalSpent
	totalPacks := payload.TotalPacks

	avgOrderValue := 0.0
	if totalPacks > 0 {
		avgOrderValue = totalSpent / float64(totalPacks)
	}

	tierTotal := totalSpent
	if lifetimeTotalSpent != nil {
		tierTotal = *lifetimeTotalSpent
	}

	// Spending mix: descending by revenue, stable on ties so the original
	// breakdown order survives.
	breakdown := append([]entity.PackBreakdownEntry(nil), payload.PackBreakdown...)
	sort.SliceStable(breakdown, func(i, j int) bool {
		return breakdown[i].TotalSpent > breakdown[j].TotalSpent
	})
	pieData := make([]entity.PackSlice, 0, len(breakdown))
	for _, b := range breakdown {
		price := entity.PackPriceFor(b.PackName, b.PackAmount)
		pieData = append(pieData, entity.PackSlice{
			Name:      b.PackName,
			Value:     b.TotalSpent,
			Count:     b.Count,
			PackPrice: &price,
		})
	}

	chartData := buildActivitySeries(txEnv.Items)

	// Price -> name lookup, last-write-wins: two packs sharing a price keep
	// only the later name.
	priceToName := make(map[string]string, len(payload.PackBreakdown))
	for _, b := range payload.PackBreakdown {
		priceToName[formatPrice(b.PackAmount)] = b.PackName
	}

	totalWinnings := payload.TotalWinnings
	if totalWinnings == 0 {
		for _, tx := range txEnv.Items {
			totalWinnings += tx.TotalWinnings
		}
	}
	rtp := payload.RTP
	if rtp == 0 && totalSpent > 0 {
		rtp = totalWinnings / totalSpent * 100
	}
	netWinnings := totalWinnings - totalSpent

	txViews := make([]entity.TransactionView, 0, len(txEnv.Items))
	for _, tx := range txEnv.Items {
		txViews = append(txViews, entity.TransactionView{
			TxHash:        tx.TxHash,
			Amount:        tx.SpendAmount(),
			PackName:      tx.PackName,
			Collection:    tx.Collection,
			TotalWinnings: tx.TotalWinnings,
			LoggedAt:      tx.LoggedAt,
			IsFreePack:    isFreePack(tx, freeHashes, len(redemptions)),
		})
	}

	freePacks := append([]entity.FreePackRedemption(nil), redemptions...)
	sort.SliceStable(freePacks, func(i, j int) bool {
		return freePacks[i].RedeemedTime().After(freePacks[j].RedeemedTime())
	})
	if freePacks == nil {
		freePacks = []entity.FreePackRedemption{}
	}

	return &entity.WalletStats{
		Wallet:         payload.Wallet,
		Username:       payload.Username,
		TotalSpent:     totalSpent,
		TotalPacks:     totalPacks,
		AvgOrderValue:  avgOrderValue,
		TotalWinnings:  totalWinnings,
		NetWinnings:    netWinnings,
		RTP:            rtp,
		Tier:           entity.TierForSpend(tierTotal),
		PieData:        pieData,
		ChartData:      chartData,
		PriceToNameMap: priceToName,
		Transactions: entity.Envelope[entity.TransactionView]{
			Items:      txViews,
			Page:       txEnv.Page,
			Limit:      txEnv.Limit,
			Total:      txEnv.Total,
			TotalPages: txEnv.TotalPages,
		},
		Inventory:              invEnv,
		TotalFreePacksRedeemed: payload.TotalFreePacksRedeemed,
		FreePacks:              freePacks,
	}
}

// isFreePack classifies a transaction. Precedence: the explicit flag, then
// membership in the redemption txHash set, then a zero amount, the last
// only when the wallet has no redemption list at all. The fallback stays
// off for wallets with any redemptions so paid $0 promos are not swept in
// alongside them.
func isFreePack(tx entity.Transaction, freeHashes map[string]struct{}, redemptionCount int) bool {
	if tx.IsFreePack != nil {
		return *tx.IsFreePack
	}
	if _, ok := freeHashes[strings.ToLower(tx.TxHash)]; ok {
		return true
	}
	return redemptionCount == 0 && tx.SpendAmount() == 0
}

type activityBucket struct {
	amount   float64
	winnings float64
	earliest time.Time
}

// buildActivitySeries groups transactions into "Jan 2" calendar-day
// buckets in the transaction's own timezone. Buckets sort by the earliest
// timestamp that produced the key, not by the key string, so year-spanning
// ranges stay ordered. Two different years formatting to the same "Jan 2"
// merge into one bucket; that is a long-standing display quirk the charts
// depend on.
func buildActivitySeries(transactions []entity.Transaction) []entity.ActivityPoint {
	buckets := make(map[string]*activityBucket)
	order := make([]string, 0)

	for _, tx := range transactions {
		ts := tx.LoggedTime()
		key := ts.Format("Jan 2")
		b, ok := buckets[key]
		if !ok {
			b = &activityBucket{earliest: ts}
			buckets[key] = b
			order = append(order, key)
		}
		b.amount += tx.SpendAmount()
		b.winnings += tx.TotalWinnings
		if ts.Before(b.earliest) {
			b.earliest = ts
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return buckets[order[i]].earliest.Before(buckets[order[j]].earliest)
	})

	series := make([]entity.ActivityPoint, 0, len(order))
	for _, key := range order {
		b := buckets[key]
		series = append(series, entity.ActivityPoint{
			Date:     key,
			Amount:   b.amount,
			Winnings: b.winnings,
		})
	}
	return series
}

// decodeFreePackList tolerates a missing or non-array freePackRedemptions
// field; both degrade to an empty list.
func decodeFreePackList(raw json.RawMessage) []entity.FreePackRedemption {
	if len(raw) == 0 {
		return nil
	}
	var redemptions []entity.FreePackRedemption
	if err := jsonCodec.Unmarshal(raw, &redemptions); err != nil {
		return nil
	}
	return redemptions
}

func formatPrice(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}
