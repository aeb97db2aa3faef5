package httpinterface_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-custody/internal/core/application/custody"
	"github.com/tdex-network/tdex-custody/internal/core/domain"
	httpinterface "github.com/tdex-network/tdex-custody/internal/interfaces/http"
	"github.com/tdex-network/tdex-custody/pkg/mathutil"
	"github.com/tdex-network/tdex-custody/pkg/retry"
)

const (
	owner       = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
	nftContract = "0x5FbDB2315678afecb367f032d93F642f64180aa3"
)

type mockCustodyService struct {
	mock.Mock
}

func (m *mockCustodyService) ListPage(
	ctx context.Context, owner string, contracts []string, page int,
) (*custody.PageResult, error) {
	args := m.Called(ctx, owner, contracts, page)
	var res *custody.PageResult
	if a := args.Get(0); a != nil {
		res = a.(*custody.PageResult)
	}
	return res, args.Error(1)
}

func (m *mockCustodyService) CountAll(
	ctx context.Context, owner string, contracts []string,
) (*custody.Counts, error) {
	args := m.Called(ctx, owner, contracts)
	var res *custody.Counts
	if a := args.Get(0); a != nil {
		res = a.(*custody.Counts)
	}
	return res, args.Error(1)
}

type mockCheckoutService struct {
	mock.Mock
}

func (m *mockCheckoutService) GetCheckout(
	ctx context.Context, id string,
) (*domain.Checkout, error) {
	args := m.Called(ctx, id)
	var res *domain.Checkout
	if a := args.Get(0); a != nil {
		res = a.(*domain.Checkout)
	}
	return res, args.Error(1)
}

func (m *mockCheckoutService) ListCheckouts(
	ctx context.Context, from string, page *domain.Page,
) ([]domain.Checkout, error) {
	args := m.Called(ctx, from, page)
	var res []domain.Checkout
	if a := args.Get(0); a != nil {
		res = a.([]domain.Checkout)
	}
	return res, args.Error(1)
}

func newServer(
	t *testing.T, custodySvc *mockCustodyService, checkoutSvc *mockCheckoutService,
) *httptest.Server {
	var svc httpinterface.CheckoutService
	if checkoutSvc != nil {
		svc = checkoutSvc
	}
	srv := httptest.NewServer(
		httpinterface.NewRouter(custodySvc, svc, domain.NativeDecimals),
	)
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string, out interface{}) int {
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, out))
	}
	return resp.StatusCode
}

func TestListAssets(t *testing.T) {
	custodySvc := &mockCustodyService{}
	custodySvc.On(
		"ListPage", mock.Anything, owner, []string{nftContract}, 2,
	).Return(&custody.PageResult{
		Page: domain.NewPage(2, 12),
		Available: []domain.Asset{{
			ContractAddress: nftContract,
			TokenID:         "13",
			CustodyID:       big.NewInt(1013),
			Valuation: domain.Valuation{
				Price: mathutil.NewAmount(big.NewInt(1e17), 18),
				Value: mathutil.NewAmount(big.NewInt(0), 18),
			},
			Metadata: domain.Metadata{Image: "https://gateway.example.org/ipfs/cid"},
		}},
		Locked: []domain.Asset{{
			ContractAddress: nftContract,
			TokenID:         "14",
			CustodyID:       big.NewInt(1014),
			State:           domain.NewCustodyState(big.NewInt(1893456000)),
		}},
		Warnings: []custody.Warning{{AssetKey: "0xabc:1", Err: fmt.Errorf("boom")}},
	}, nil)

	srv := newServer(t, custodySvc, nil)

	var page map[string]interface{}
	status := get(t, fmt.Sprintf(
		"%s/v1/owners/%s/assets?page=2&contract=%s", srv.URL, owner, nftContract,
	), &page)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, float64(2), page["page"])
	require.Equal(t, true, page["partial"])
	require.Len(t, page["warnings"], 1)

	available := page["available"].([]interface{})
	require.Len(t, available, 1)
	first := available[0].(map[string]interface{})
	require.Equal(t, "13", first["tokenId"])
	require.Equal(t, "1013", first["custodyId"])
	require.Equal(t, "AVAILABLE", first["status"])
	require.Equal(t, "0.1", first["price"])

	locked := page["locked"].([]interface{})
	require.Len(t, locked, 1)
	require.Equal(t, "LOCKED", locked[0].(map[string]interface{})["status"])
	require.Equal(t, float64(1893456000), locked[0].(map[string]interface{})["lockedUntil"])

	custodySvc.AssertExpectations(t)
}

func TestListAssetsBadRequest(t *testing.T) {
	srv := newServer(t, &mockCustodyService{}, nil)

	urls := []string{
		fmt.Sprintf("%s/v1/owners/%s/assets", srv.URL, "alice"),
		fmt.Sprintf("%s/v1/owners/%s/assets?page=0", srv.URL, owner),
		fmt.Sprintf("%s/v1/owners/%s/assets?page=two", srv.URL, owner),
		fmt.Sprintf("%s/v1/owners/%s/assets?contract=0x01", srv.URL, owner),
	}
	for _, url := range urls {
		var resp map[string]string
		status := get(t, url, &resp)
		require.Equal(t, http.StatusBadRequest, status, url)
		require.NotEmpty(t, resp["error"])
	}
}

func TestCountAssets(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		custodySvc := &mockCustodyService{}
		custodySvc.On("CountAll", mock.Anything, owner, []string(nil)).
			Return(&custody.Counts{Available: 13, Locked: 12}, nil)
		srv := newServer(t, custodySvc, nil)

		var counts map[string]int
		status := get(t, fmt.Sprintf("%s/v1/owners/%s/counts", srv.URL, owner), &counts)
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, map[string]int{"available": 13, "locked": 12, "total": 25}, counts)
	})

	t.Run("exhausted", func(t *testing.T) {
		custodySvc := &mockCustodyService{}
		custodySvc.On("CountAll", mock.Anything, owner, []string(nil)).
			Return(nil, &retry.MaxRetriesError{Attempts: 5, Last: fmt.Errorf("rpc down")})
		srv := newServer(t, custodySvc, nil)

		status := get(t, fmt.Sprintf("%s/v1/owners/%s/counts", srv.URL, owner), nil)
		require.Equal(t, http.StatusServiceUnavailable, status)
	})
}

func TestAllocate(t *testing.T) {
	srv := newServer(t, &mockCustodyService{}, nil)

	body := fmt.Sprintf(`{
		"assets": [
			{"address": "%[1]s", "tokenId": "1", "fee": "0.3"},
			{"address": "%[1]s", "tokenId": "2", "fee": "0.5"}
		],
		"availableCredit": "0.4"
	}`, nftContract)
	resp, err := http.Post(
		srv.URL+"/v1/allocations", "application/json", strings.NewReader(body),
	)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var allocation struct {
		ID              string `json:"id"`
		TotalFee        string `json:"totalFee"`
		TotalCreditUsed string `json:"totalCreditUsed"`
		RemainingCredit string `json:"remainingCredit"`
		Items           []struct {
			TokenID        string `json:"tokenId"`
			FeeAfterCredit string `json:"feeAfterCredit"`
			CreditUsed     string `json:"creditUsed"`
		} `json:"items"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&allocation))
	require.NotEmpty(t, allocation.ID)
	require.Equal(t, "0.8", allocation.TotalFee)
	require.Equal(t, "0.4", allocation.TotalCreditUsed)
	require.Equal(t, "0", allocation.RemainingCredit)
	require.Len(t, allocation.Items, 2)
	require.Equal(t, "0.3", allocation.Items[0].CreditUsed)
	require.Equal(t, "0.1", allocation.Items[1].CreditUsed)
	require.Equal(t, "0.5", allocation.Items[1].FeeAfterCredit)
}

func TestAllocateBadRequest(t *testing.T) {
	srv := newServer(t, &mockCustodyService{}, nil)

	bodies := []string{
		`not json`,
		`{"assets": []}`,
		fmt.Sprintf(`{"assets": [{"address": "%s", "tokenId": "1", "fee": "-1"}]}`, nftContract),
		fmt.Sprintf(`{"assets": [{"address": "%s", "tokenId": "1", "fee": "1"}], "availableCredit": "-0.1"}`, nftContract),
		`{"assets": [{"address": "0x01", "tokenId": "1", "fee": "1"}]}`,
		fmt.Sprintf(`{"assets": [{"address": "%s", "tokenId": "one", "fee": "1"}]}`, nftContract),
	}
	for _, body := range bodies {
		resp, err := http.Post(
			srv.URL+"/v1/allocations", "application/json", strings.NewReader(body),
		)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
	}
}

func TestCheckouts(t *testing.T) {
	checkoutSvc := &mockCheckoutService{}
	checkoutSvc.On("GetCheckout", mock.Anything, "c1").Return(&domain.Checkout{
		ID:       "c1",
		From:     owner,
		TotalFee: "800000000000000000",
		Status:   domain.CheckoutSubmitted,
		TxHashes: []string{"0xabc"},
	}, nil)
	checkoutSvc.On("GetCheckout", mock.Anything, "missing").
		Return(nil, domain.ErrCheckoutNotFound)
	checkoutSvc.On("ListCheckouts", mock.Anything, owner, mock.Anything).
		Return([]domain.Checkout{{ID: "c1", Status: domain.CheckoutFailed}}, nil)

	srv := newServer(t, &mockCustodyService{}, checkoutSvc)

	var checkout map[string]interface{}
	status := get(t, srv.URL+"/v1/checkouts/c1", &checkout)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "SUBMITTED", checkout["status"])
	require.Equal(t, []interface{}{"0xabc"}, checkout["txHashes"])

	status = get(t, srv.URL+"/v1/checkouts/missing", nil)
	require.Equal(t, http.StatusNotFound, status)

	var list map[string][]map[string]interface{}
	status = get(t, fmt.Sprintf("%s/v1/owners/%s/checkouts", srv.URL, owner), &list)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, list["checkouts"], 1)
	require.Equal(t, "FAILED", list["checkouts"][0]["status"])
}

func TestCheckoutRoutesDisabled(t *testing.T) {
	srv := newServer(t, &mockCustodyService{}, nil)

	status := get(t, srv.URL+"/v1/checkouts/c1", nil)
	require.Equal(t, http.StatusNotFound, status)
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newServer(t, &mockCustodyService{}, nil)

	status := get(t, srv.URL+"/healthz", nil)
	require.Equal(t, http.StatusOK, status)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `custody_http_requests_total{method="GET",route="/healthz",status="200"}`)
}
