package entity

// UserProfile is the tag store row for a wallet, owned by the external
// profile store. Tags are the only locally authored wallet metadata.
type UserProfile struct {
	WalletAddress string   `json:"wallet_address"`
	Tags          []string `json:"tags"`
	CreatedBy     string   `json:"created_by,omitempty"`
	UpdatedAt     string   `json:"updated_at,omitempty"`
}

// ProfileComment is an admin note attached to a wallet.
type ProfileComment struct {
	ID            int64  `json:"id,omitempty"`
	WalletAddress string `json:"wallet_address"`
	Comment       string `json:"comment"`
	Author        string `json:"author"`
	CreatedAt     string `json:"created_at,omitempty"`
}

// DefaultTags are offered as suggestions when a wallet has no profile yet.
var DefaultTags = []string{
	"abstract farmer",
	"collectors",
	"rip packs",
	"outside abstract",
}
