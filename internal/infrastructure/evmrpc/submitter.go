package evmrpc

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-custody/internal/core/ports"
)

type submitter struct {
	client *client
}

// NewSubmitter returns a TxSubmitter that hands every request to the node
// with eth_sendTransaction. The from account must be managed (unlocked) by
// the node, which signs the transactions.
func NewSubmitter(endpoint string, timeout time.Duration) (ports.TxSubmitter, error) {
	c, err := newClient(endpoint, timeout)
	if err != nil {
		return nil, err
	}
	return &submitter{c}, nil
}

// Submit sends the requests in order and stops at the first failure. The
// hashes of the transactions already sent are returned along with the error.
func (s *submitter) Submit(
	ctx context.Context, from string, reqs []ports.TxRequest,
) ([]string, error) {
	txHashes := make([]string, 0, len(reqs))
	for i, req := range reqs {
		data, err := EncodeCall(req.GetMethod(), req.GetArgs()...)
		if err != nil {
			return txHashes, fmt.Errorf("request %d: %w", i, err)
		}

		msg := callMsg{
			From: from,
			To:   req.GetTo(),
			Data: "0x" + hex.EncodeToString(data),
		}
		if value := req.GetValue(); value != nil && value.Sign() > 0 {
			msg.Value = fmt.Sprintf("0x%x", value)
		}

		var txHash string
		if err := s.client.call(
			ctx, "eth_sendTransaction", []interface{}{msg}, &txHash,
		); err != nil {
			return txHashes, fmt.Errorf("request %d: %w", i, err)
		}
		log.Debugf("sent tx %s calling %s on %s", txHash, req.GetMethod(), req.GetTo())
		txHashes = append(txHashes, txHash)
	}
	return txHashes, nil
}
