package ports

import (
	"context"
	"encoding/json"
	"iter"
)

// RawAsset is an ownership record as returned by an asset index.
type RawAsset interface {
	GetContractAddress() string
	GetTokenID() string
	GetName() string
	GetDescription() string
	GetImage() string
	GetAnimationURL() string
	GetAttributes() json.RawMessage
}

// AssetIndex lists the assets owned by an address, optionally restricted to
// some contracts, in the index's own order.
//
// The returned sequence is lazy: pages are fetched from the index while the
// sequence is consumed and stopping early stops fetching. An error ends the
// sequence. The index offers no cursor that survives failures, a walk that
// failed must be restarted from scratch.
type AssetIndex interface {
	Assets(
		ctx context.Context, owner string, contracts []string,
	) iter.Seq2[RawAsset, error]
}
