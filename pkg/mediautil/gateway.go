package mediautil

import "strings"

const (
	ipfsScheme = "ipfs://"
	// DefaultGateway is used when no gateway is configured.
	DefaultGateway = "https://ipfs.io/ipfs/"
)

// ToGatewayURL rewrites a content-addressed ipfs:// URI into an URL served by
// the given HTTP gateway. Any other URI is returned unchanged.
func ToGatewayURL(uri, gateway string) string {
	trimmed := strings.TrimSpace(uri)
	if !strings.HasPrefix(strings.ToLower(trimmed), ipfsScheme) {
		return uri
	}
	if gateway == "" {
		gateway = DefaultGateway
	}
	if !strings.HasSuffix(gateway, "/") {
		gateway += "/"
	}

	path := trimmed[len(ipfsScheme):]
	// ipfs://ipfs/<cid> is a common malformed variant
	path = strings.TrimPrefix(path, "ipfs/")
	return gateway + path
}
