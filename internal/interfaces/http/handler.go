package httpinterface

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-custody/internal/core/application/custody"
	"github.com/tdex-network/tdex-custody/internal/core/domain"
	"github.com/tdex-network/tdex-custody/pkg/retry"
)

const maxBodySize = 1 << 20

type CustodyService interface {
	ListPage(
		ctx context.Context, owner string, contracts []string, page int,
	) (*custody.PageResult, error)
	CountAll(
		ctx context.Context, owner string, contracts []string,
	) (*custody.Counts, error)
}

type CheckoutService interface {
	GetCheckout(ctx context.Context, id string) (*domain.Checkout, error)
	ListCheckouts(
		ctx context.Context, from string, page *domain.Page,
	) ([]domain.Checkout, error)
}

type handler struct {
	custodySvc  CustodyService
	checkoutSvc CheckoutService
	decimals    int32
}

func newHandler(
	custodySvc CustodyService, checkoutSvc CheckoutService, decimals int32,
) *handler {
	return &handler{custodySvc, checkoutSvc, decimals}
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) listAssets(w http.ResponseWriter, r *http.Request) {
	owner, contracts, ok := ownerAndContracts(w, r)
	if !ok {
		return
	}
	pageNumber, ok := pageNumber(w, r)
	if !ok {
		return
	}

	result, err := h.custodySvc.ListPage(r.Context(), owner, contracts, pageNumber)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toPage(result))
}

func (h *handler) countAssets(w http.ResponseWriter, r *http.Request) {
	owner, contracts, ok := ownerAndContracts(w, r)
	if !ok {
		return
	}

	result, err := h.custodySvc.CountAll(r.Context(), owner, contracts)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, counts{
		Available: result.Available,
		Locked:    result.Locked,
		Total:     result.Total(),
	})
}

// allocate previews the allocation of the given credit over the selected
// assets. Nothing is stored.
func (h *handler) allocate(w http.ResponseWriter, r *http.Request) {
	req := allocateRequest{}
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	selected := make([]domain.SelectedAsset, 0, len(req.Assets))
	for _, a := range req.Assets {
		selected = append(selected, domain.SelectedAsset{
			Address: a.Address,
			TokenID: a.TokenID,
			Fee:     a.Fee,
		})
	}
	credit := req.AvailableCredit
	if credit == "" {
		credit = "0"
	}

	result, err := domain.Allocate(selected, credit, h.decimals)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toAllocation(result))
}

func (h *handler) getCheckout(w http.ResponseWriter, r *http.Request) {
	result, err := h.checkoutSvc.GetCheckout(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toCheckout(result))
}

func (h *handler) listCheckouts(w http.ResponseWriter, r *http.Request) {
	owner := mux.Vars(r)["owner"]
	if err := domain.ValidateAddress(owner); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	pageNumber, ok := pageNumber(w, r)
	if !ok {
		return
	}
	page := domain.NewPage(pageNumber, domain.DefaultPageSize)

	result, err := h.checkoutSvc.ListCheckouts(r.Context(), owner, &page)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	list := make([]checkout, 0, len(result))
	for i := range result {
		list = append(list, toCheckout(&result[i]))
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"checkouts": list})
}

func ownerAndContracts(
	w http.ResponseWriter, r *http.Request,
) (string, []string, bool) {
	owner := mux.Vars(r)["owner"]
	if err := domain.ValidateAddress(owner); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return "", nil, false
	}
	contracts := r.URL.Query()["contract"]
	for _, c := range contracts {
		if err := domain.ValidateAddress(c); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return "", nil, false
		}
	}
	return owner, contracts, true
}

func pageNumber(w http.ResponseWriter, r *http.Request) (int, bool) {
	s := r.URL.Query().Get("page")
	if s == "" {
		return 1, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		respondError(w, http.StatusBadRequest, "page must be a positive integer")
		return 0, false
	}
	return n, true
}

func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrAllocationPrecondition),
		errors.Is(err, domain.ErrInvalidTokenID),
		errors.Is(err, domain.ErrInvalidContractAddress):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrCheckoutNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, retry.ErrMaxRetriesExceeded):
		respondError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respondError(w, http.StatusGatewayTimeout, err.Error())
	default:
		log.WithError(err).Error("http: internal error")
		respondError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}

func respondJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.WithError(err).Debug("http: failed to write response")
	}
}

func respondError(w http.ResponseWriter, code int, msg string) {
	respondJSON(w, code, errorResponse{msg})
}
