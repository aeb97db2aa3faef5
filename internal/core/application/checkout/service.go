package checkout

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-custody/internal/core/domain"
	"github.com/tdex-network/tdex-custody/internal/core/ports"
)

// Service turns allocations into withdrawal transactions. Every allocation
// is submitted at most once, a failed submission is recorded and never
// retried: the caller must allocate again.
type Service struct {
	repo            domain.CheckoutRepository
	submitter       ports.TxSubmitter
	custodyContract string
}

func NewService(
	repo domain.CheckoutRepository,
	submitter ports.TxSubmitter,
	custodyContract string,
) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("missing checkout repository")
	}
	if submitter == nil {
		return nil, fmt.Errorf("missing tx submitter")
	}
	if err := domain.ValidateAddress(custodyContract); err != nil {
		return nil, fmt.Errorf("custody contract: %w", err)
	}
	return &Service{repo, submitter, custodyContract}, nil
}

// Checkout records and submits the withdrawal of the given allocation on
// behalf of from. The returned checkout is either submitted, with the tx
// hashes, or failed, in which case the error is a *domain.SubmissionError.
func (s *Service) Checkout(
	ctx context.Context, from string, allocation *domain.AllocationResult,
) (*domain.Checkout, error) {
	if allocation == nil || allocation.Len() <= 0 {
		return nil, domain.ErrEmptySelection
	}
	if err := domain.ValidateAddress(from); err != nil {
		return nil, fmt.Errorf("from: %w", err)
	}

	checkout := domain.NewCheckout(from, allocation)
	if err := s.repo.AddCheckout(ctx, *checkout); err != nil {
		return nil, err
	}

	req := newTxRequest(s.custodyContract, allocation)
	log.Debugf(
		"submitting checkout %s: %s with value %s",
		checkout.ID, req.GetMethod(), req.GetValue(),
	)

	txHashes, submitErr := s.submitter.Submit(
		ctx, from, []ports.TxRequest{req},
	)
	if submitErr != nil {
		submitErr = &domain.SubmissionError{CheckoutID: checkout.ID, Err: submitErr}
		log.WithError(submitErr).Warn("checkout failed")
	}

	var updated *domain.Checkout
	if err := s.repo.UpdateCheckout(
		ctx, checkout.ID,
		func(c *domain.Checkout) (*domain.Checkout, error) {
			if submitErr != nil {
				if err := c.Fail(submitErr.Error()); err != nil {
					return nil, err
				}
			} else {
				if err := c.Submit(txHashes); err != nil {
					return nil, err
				}
			}
			updated = c
			return c, nil
		},
	); err != nil {
		// the submission outcome cannot be lost, it's returned anyway
		log.WithError(err).Errorf("failed to update checkout %s", checkout.ID)
		if submitErr != nil {
			return nil, errors.Join(submitErr, err)
		}
		return nil, err
	}

	if submitErr != nil {
		return updated, submitErr
	}

	log.Infof("checkout %s submitted in tx %v", checkout.ID, txHashes)
	return updated, nil
}

func (s *Service) GetCheckout(ctx context.Context, id string) (*domain.Checkout, error) {
	return s.repo.GetCheckout(ctx, id)
}

func (s *Service) ListCheckouts(
	ctx context.Context, from string, page *domain.Page,
) ([]domain.Checkout, error) {
	return s.repo.ListCheckouts(ctx, from, page)
}
