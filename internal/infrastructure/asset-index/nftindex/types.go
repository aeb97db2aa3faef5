package nftindex

import "encoding/json"

type ownedNFTsResponse struct {
	OwnedNFTs  []nft  `json:"ownedNfts"`
	PageKey    string `json:"pageKey"`
	TotalCount int    `json:"totalCount"`
}

type nft struct {
	Contract    contract `json:"contract"`
	TokenID     string   `json:"tokenId"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Image       image    `json:"image"`
	Raw         raw      `json:"raw"`
}

type contract struct {
	Address string `json:"address"`
}

type image struct {
	OriginalURL string `json:"originalUrl"`
}

type raw struct {
	TokenURI string   `json:"tokenUri"`
	Metadata metadata `json:"metadata"`
}

type metadata struct {
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Image        string          `json:"image"`
	AnimationURL string          `json:"animation_url"`
	Attributes   json.RawMessage `json:"attributes"`
}

func (n nft) GetContractAddress() string {
	return n.Contract.Address
}

func (n nft) GetTokenID() string {
	return n.TokenID
}

func (n nft) GetName() string {
	if n.Name != "" {
		return n.Name
	}
	return n.Raw.Metadata.Name
}

func (n nft) GetDescription() string {
	if n.Description != "" {
		return n.Description
	}
	return n.Raw.Metadata.Description
}

// GetImage prefers the uri found in the token metadata, usually
// content-addressed, over the index's own copy.
func (n nft) GetImage() string {
	if n.Raw.Metadata.Image != "" {
		return n.Raw.Metadata.Image
	}
	return n.Image.OriginalURL
}

func (n nft) GetAnimationURL() string {
	return n.Raw.Metadata.AnimationURL
}

func (n nft) GetAttributes() json.RawMessage {
	return n.Raw.Metadata.Attributes
}
