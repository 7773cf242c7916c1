package entity

// WalletStats is the aggregate view rendered by the dashboard: KPIs, the
// spend distribution, the activity series and the normalized transaction
// and inventory envelopes. It is materialized fresh per search and never
// mutated in place.
type WalletStats struct {
	Wallet                 string                    `json:"wallet"`
	Username               string                    `json:"username,omitempty"`
	TotalSpent             float64                   `json:"totalSpent"`
	TotalPacks             int                       `json:"totalPacks"`
	AvgOrderValue          float64                   `json:"avgOrderValue"`
	TotalWinnings          float64                   `json:"totalWinnings"`
	NetWinnings            float64                   `json:"netWinnings"`
	RTP                    float64                   `json:"rtp"`
	Tier                   string                    `json:"tier"`
	PieData                []PackSlice               `json:"pieData"`
	ChartData              []ActivityPoint           `json:"chartData"`
	PriceToNameMap         map[string]string         `json:"priceToNameMap"`
	Transactions           Envelope[TransactionView] `json:"transactions"`
	Inventory              Envelope[InventoryItem]   `json:"inventory"`
	TotalFreePacksRedeemed int                       `json:"totalFreePacksRedeemed"`
	FreePacks              []FreePackRedemption      `json:"freePacks"`
}

// TransactionView is a transaction with the legacy/current amount fields
// collapsed and the free-pack classification resolved.
type TransactionView struct {
	TxHash        string  `json:"txHash"`
	Amount        float64 `json:"amount"`
	PackName      string  `json:"packName,omitempty"`
	Collection    string  `json:"collection,omitempty"`
	TotalWinnings float64 `json:"totalWinnings"`
	LoggedAt      string  `json:"loggedAt"`
	IsFreePack    bool    `json:"isFreePack"`
}

// PackSlice is one slice of the spending-mix distribution, ordered by
// revenue descending.
type PackSlice struct {
	Name      string   `json:"name"`
	Value     float64  `json:"value"`
	Count     int      `json:"count"`
	PackPrice *float64 `json:"packPrice"`
}

// ActivityPoint is one day bucket of the activity series. Date is the
// "Jan 2" display key; the sort key used to order buckets is stripped
// before output.
type ActivityPoint struct {
	Date     string  `json:"date"`
	Amount   float64 `json:"amount"`
	Winnings float64 `json:"winnings"`
}

// WalletSearchResult wraps the stats together with where the data came
// from: the live API or the mock fallback.
type WalletSearchResult struct {
	Stats           *WalletStats `json:"data"`
	DataSource      string       `json:"dataSource"`
	LeaderboardRank int          `json:"leaderboardRank,omitempty"`
}

// Data source markers for WalletSearchResult.
const (
	DataSourceAPI  = "api"
	DataSourceMock = "mock"
)
