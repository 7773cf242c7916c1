package service

import (
	"math"
	"math/rand"
	"sort"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/jpeggirl/gacha-dashboard/internal/domain/entity"
)

const (
	mockTransactionCount = 50
	mockHistoryDays      = 90
	// Synthetic winnings land between 80% and 120% of spend.
	mockRTPFloor = 0.8
	mockRTPSpan  = 0.4

	freePackChance   = 0.3
	maxMockFreePacks = 4

	mockCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	mockCodeLength   = 8
	txHashHexDigits  = 64
)

// GenerateMockData produces a synthetic payload structurally identical to a
// real pack-purchases response, used when the live API is unreachable. It
// is derived from the identifier plus ambient randomness; two calls for
// the same wallet give structurally valid but value-different payloads,
// which is expected.
func GenerateMockData(identifier string) *entity.RawWalletPayload {
	now := time.Now()

	transactions := make([]entity.Transaction, 0, mockTransactionCount)
	breakdownByName := make(map[string]*entity.PackBreakdownEntry)
	nameOrder := make([]string, 0, len(entity.PackDefinitions))

	var totalSpent, totalWinnings float64

	for i := 0; i < mockTransactionCount; i++ {
		pack := entity.PackDefinitions[rand.Intn(len(entity.PackDefinitions))]
		loggedAt := now.AddDate(0, 0, -rand.Intn(mockHistoryDays))

		amount := pack.Price
		winnings := roundCents(amount * (mockRTPFloor + rand.Float64()*mockRTPSpan))

		totalSpent += amount
		totalWinnings += winnings

		b, ok := breakdownByName[pack.Name]
		if !ok {
			b = &entity.PackBreakdownEntry{PackName: pack.Name, PackAmount: pack.Price}
			breakdownByName[pack.Name] = b
			nameOrder = append(nameOrder, pack.Name)
		}
		b.Count++
		b.TotalSpent += amount
		b.TotalWinnings += winnings

		amt := amount
		transactions = append(transactions, entity.Transaction{
			TxHash:        randomTxHash(),
			Amount:        &amt,
			PackName:      pack.Name,
			TotalWinnings: winnings,
			LoggedAt:      loggedAt.UTC().Format(time.RFC3339),
		})
	}

	sort.SliceStable(transactions, func(i, j int) bool {
		return transactions[i].LoggedAt > transactions[j].LoggedAt
	})

	breakdown := make([]entity.PackBreakdownEntry, 0, len(nameOrder))
	for _, name := range nameOrder {
		b := breakdownByName[name]
		if b.TotalSpent > 0 {
			b.RTP = b.TotalWinnings / b.TotalSpent * 100
		}
		breakdown = append(breakdown, *b)
	}

	redemptions := generateMockFreePacks(now)

	payload := &entity.RawWalletPayload{
		Wallet:                 identifier,
		TotalSpent:             totalSpent,
		TotalPacks:             mockTransactionCount,
		TotalWinnings:          roundCents(totalWinnings),
		PackBreakdown:          breakdown,
		TotalFreePacksRedeemed: len(redemptions),
	}
	if totalSpent > 0 {
		payload.RTP = payload.TotalWinnings / totalSpent * 100
	}

	// Decoded slices always marshal; ignoring the error keeps the fallback
	// path error-free end to end.
	payload.Transactions, _ = jsonCodec.Marshal(transactions)
	payload.FreePackRedemptions, _ = jsonCodec.Marshal(redemptions)
	return payload
}

// generateMockFreePacks simulates real API behavior: most wallets have no
// redemptions, roughly 30% carry one to four.
func generateMockFreePacks(now time.Time) []entity.FreePackRedemption {
	redemptions := []entity.FreePackRedemption{}
	if rand.Float64() >= freePackChance {
		return redemptions
	}

	n := 1 + rand.Intn(maxMockFreePacks)
	for i := 0; i < n; i++ {
		code, err := gonanoid.Generate(mockCodeAlphabet, mockCodeLength)
		if err != nil {
			continue
		}
		redeemedAt := now.AddDate(0, 0, -rand.Intn(mockHistoryDays))
		redemptions = append(redemptions, entity.FreePackRedemption{
			Code:       code,
			RedeemedAt: redeemedAt.UTC().Format(time.RFC3339),
		})
	}

	sort.SliceStable(redemptions, func(i, j int) bool {
		return redemptions[i].RedeemedAt > redemptions[j].RedeemedAt
	})
	return redemptions
}

func randomTxHash() string {
	const hexDigits = "0123456789abcdef"
	buf := make([]byte, txHashHexDigits)
	for i := range buf {
		buf[i] = hexDigits[rand.Intn(len(hexDigits))]
	}
	return "0x" + string(buf)
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
