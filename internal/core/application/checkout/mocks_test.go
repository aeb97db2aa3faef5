package checkout_test

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/tdex-network/tdex-custody/internal/core/ports"
)

// **** Tx submitter ****

type mockSubmitter struct {
	mock.Mock
}

func (m *mockSubmitter) Submit(
	ctx context.Context, from string, reqs []ports.TxRequest,
) ([]string, error) {
	args := m.Called(ctx, from, reqs)

	var res []string
	if a := args.Get(0); a != nil {
		res = a.([]string)
	}
	return res, args.Error(1)
}
