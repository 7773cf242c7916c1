package entity

// PurchaseQuery carries the pagination and time-frame parameters accepted
// by the fetch boundary. Zero values mean "let the API pick".
type PurchaseQuery struct {
	TransactionsPage  int
	TransactionsLimit int
	InventoryPage     int
	InventoryLimit    int
	TimeFrame         string
}

// Time frames accepted by the wallet search.
const (
	TimeFrameAll    = "all"
	TimeFrame7Days  = "7d"
	TimeFrame30Days = "30d"
)

// ValidTimeFrame reports whether frame is one of the supported values.
// The empty string means "all".
func ValidTimeFrame(frame string) bool {
	switch frame {
	case "", TimeFrameAll, TimeFrame7Days, TimeFrame30Days:
		return true
	}
	return false
}
