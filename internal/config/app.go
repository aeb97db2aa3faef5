package config

import (
	"path/filepath"

	"github.com/tdex-network/tdex-custody/internal/core/application"
	"github.com/tdex-network/tdex-custody/internal/core/application/custody"
	"github.com/tdex-network/tdex-custody/internal/infrastructure/asset-index/nftindex"
	"github.com/tdex-network/tdex-custody/internal/infrastructure/evmrpc"
	"github.com/tdex-network/tdex-custody/pkg/retry"
)

// AppConfig builds the application config out of the current configuration.
// InitConfig must be called first.
func AppConfig() (*application.Config, error) {
	net := NetworkConfig()
	timeout := GetDuration(RequestTimeoutKey)

	reader, err := evmrpc.NewReader(net.RPCEndpoint, timeout)
	if err != nil {
		return nil, err
	}
	submitter, err := evmrpc.NewSubmitter(net.RPCEndpoint, timeout)
	if err != nil {
		return nil, err
	}
	index, err := nftindex.NewService(
		net.IndexEndpoint, GetString(IndexAPIKeyKey),
		GetInt(IndexPageSizeKey), timeout,
	)
	if err != nil {
		return nil, err
	}

	dbType := GetString(DBTypeKey)
	var dbConfig interface{}
	switch dbType {
	case application.DBBadger:
		dbConfig = filepath.Join(GetDatadir(), DbLocation)
	case application.DBPostgres:
		dbConfig = GetString(PgDSNKey)
	}

	return &application.Config{
		DBType:         dbType,
		DBConfig:       dbConfig,
		ContractReader: reader,
		AssetIndex:     index,
		TxSubmitter:    submitter,
		Custody: custody.Config{
			Contract: custody.Contract{
				Address:          net.CustodyContract,
				CustodyIDMethod:  GetString(CustodyIDMethodKey),
				LockExpiryMethod: GetString(LockExpiryMethodKey),
				ValuationMethod:  GetString(ValuationMethodKey),
			},
			PageSize: GetInt(PageSizeKey),
			Decimals: int32(GetInt(DecimalsKey)),
			Gateway:  net.IpfsGateway,
			CallPolicy: retry.Policy{
				MaxAttempts: GetInt(MaxCallAttemptsKey),
				BaseDelay:   GetDuration(CallBaseDelayKey),
				Jitter:      true,
			},
			CountPolicy: retry.Policy{
				MaxAttempts: GetInt(CountMaxAttemptsKey),
				BaseDelay:   GetDuration(CountBaseDelayKey),
			},
			CallRateLimit: GetInt(CallRateLimitKey),
		},
	}, nil
}
