package httpinterface

import (
	"github.com/tdex-network/tdex-custody/internal/core/application/custody"
	"github.com/tdex-network/tdex-custody/internal/core/domain"
	"github.com/tdex-network/tdex-custody/pkg/mathutil"
)

type asset struct {
	Key             string          `json:"key"`
	ContractAddress string          `json:"contractAddress"`
	TokenID         string          `json:"tokenId"`
	CustodyID       string          `json:"custodyId"`
	Status          string          `json:"status"`
	LockedUntil     uint64          `json:"lockedUntil,omitempty"`
	Price           mathutil.Amount `json:"price"`
	Value           mathutil.Amount `json:"value"`
	Metadata        domain.Metadata `json:"metadata"`
}

type page struct {
	Number    int      `json:"page"`
	Size      int      `json:"pageSize"`
	Available []asset  `json:"available"`
	Locked    []asset  `json:"locked"`
	Partial   bool     `json:"partial"`
	Warnings  []string `json:"warnings"`
}

type counts struct {
	Available int `json:"available"`
	Locked    int `json:"locked"`
	Total     int `json:"total"`
}

type selectedAsset struct {
	Address string `json:"address"`
	TokenID string `json:"tokenId"`
	Fee     string `json:"fee"`
}

type allocateRequest struct {
	Assets          []selectedAsset `json:"assets"`
	AvailableCredit string          `json:"availableCredit"`
}

type allocationItem struct {
	Address        string `json:"address"`
	TokenID        string `json:"tokenId"`
	Fee            string `json:"fee"`
	FeeAfterCredit string `json:"feeAfterCredit"`
	CreditUsed     string `json:"creditUsed"`
}

type allocation struct {
	ID              string           `json:"id"`
	TotalFee        string           `json:"totalFee"`
	TotalCreditUsed string           `json:"totalCreditUsed"`
	RemainingCredit string           `json:"remainingCredit"`
	Items           []allocationItem `json:"items"`
}

type checkout struct {
	ID           string   `json:"id"`
	AllocationID string   `json:"allocationId"`
	From         string   `json:"from"`
	TotalFee     string   `json:"totalFee"`
	CreditUsed   string   `json:"creditUsed"`
	NumOfAssets  int      `json:"numOfAssets"`
	Status       string   `json:"status"`
	TxHashes     []string `json:"txHashes"`
	FailReason   string   `json:"failReason,omitempty"`
	CreatedAt    int64    `json:"createdAt"`
	UpdatedAt    int64    `json:"updatedAt"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toAssets(list []domain.Asset) []asset {
	assets := make([]asset, 0, len(list))
	for _, a := range list {
		custodyID := ""
		if a.CustodyID != nil {
			custodyID = a.CustodyID.String()
		}
		assets = append(assets, asset{
			Key:             a.Key(),
			ContractAddress: a.ContractAddress,
			TokenID:         a.TokenID,
			CustodyID:       custodyID,
			Status:          a.State.Status.String(),
			LockedUntil:     a.State.LockedUntil,
			Price:           a.Valuation.Price,
			Value:           a.Valuation.Value,
			Metadata:        a.Metadata,
		})
	}
	return assets
}

func toPage(r *custody.PageResult) page {
	warnings := make([]string, 0, len(r.Warnings))
	for _, w := range r.Warnings {
		warnings = append(warnings, w.String())
	}
	return page{
		Number:    r.Page.Number,
		Size:      r.Page.Size,
		Available: toAssets(r.Available),
		Locked:    toAssets(r.Locked),
		Partial:   r.IsPartial(),
		Warnings:  warnings,
	}
}

func toAllocation(r *domain.AllocationResult) allocation {
	decimals := r.Decimals()
	items := make([]allocationItem, 0, r.Len())
	for _, i := range r.Items() {
		items = append(items, allocationItem{
			Address:        i.Address,
			TokenID:        i.TokenID.String(),
			Fee:            mathutil.FromSmallestUnit(i.Fee, decimals),
			FeeAfterCredit: mathutil.FromSmallestUnit(i.FeeAfterCredit, decimals),
			CreditUsed:     mathutil.FromSmallestUnit(i.CreditUsed, decimals),
		})
	}
	return allocation{
		ID:              r.ID(),
		TotalFee:        mathutil.FromSmallestUnit(r.TotalFee(), decimals),
		TotalCreditUsed: mathutil.FromSmallestUnit(r.TotalCreditUsed(), decimals),
		RemainingCredit: mathutil.FromSmallestUnit(r.RemainingCredit(), decimals),
		Items:           items,
	}
}

func toCheckout(c *domain.Checkout) checkout {
	txHashes := c.TxHashes
	if txHashes == nil {
		txHashes = make([]string, 0)
	}
	return checkout{
		ID:           c.ID,
		AllocationID: c.AllocationID,
		From:         c.From,
		TotalFee:     c.TotalFee,
		CreditUsed:   c.CreditUsed,
		NumOfAssets:  c.NumOfAssets,
		Status:       c.Status.String(),
		TxHashes:     txHashes,
		FailReason:   c.FailReason,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}
