package domain

const (
	// DefaultPageSize is the number of assets returned per page.
	DefaultPageSize = 12

	// NativeDecimals is the precision of the native currency of EVM chains.
	NativeDecimals = int32(18)
)
