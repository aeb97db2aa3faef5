package custody

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"sort"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-custody/internal/core/domain"
	"github.com/tdex-network/tdex-custody/internal/core/ports"
	"github.com/tdex-network/tdex-custody/pkg/mathutil"
	"github.com/tdex-network/tdex-custody/pkg/mediautil"
	"github.com/tdex-network/tdex-custody/pkg/retry"
	"github.com/tdex-network/tdex-custody/pkg/stats"
	"golang.org/x/sync/errgroup"
)

const (
	listPageOperation = "list_page"
	countOperation    = "count_all"
)

// ListPage returns the given 1-indexed page of the assets owned by owner,
// optionally restricted to some asset contracts, split by custody status.
//
// Assets are classified one at a time in index order, every asset visited to
// reach the page is annotated even if it lands on a previous page. The walk
// stops as soon as the page is full. An asset whose annotation fails after
// all retries is left out and reported in the result warnings, as is a
// failure of the index, in which case the page may be short.
func (s *Service) ListPage(
	ctx context.Context, owner string, contracts []string, pageNumber int,
) (*PageResult, error) {
	page := domain.NewPage(pageNumber, s.cfg.PageSize)
	result := &PageResult{
		Page:      page,
		Available: make([]domain.Asset, 0),
		Locked:    make([]domain.Asset, 0),
		Warnings:  make([]Warning, 0),
	}

	position := 0
	for raw, err := range s.index.Assets(ctx, owner, contracts) {
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			log.WithError(err).Warnf("index walk for %s interrupted", owner)
			result.Warnings = append(result.Warnings, Warning{Err: err})
			break
		}

		asset, err := s.classify(ctx, raw, true)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			key := domain.AssetKey(raw.GetContractAddress(), raw.GetTokenID())
			log.WithError(err).Warnf("excluding asset %s from listing", key)
			stats.AssetExcluded(listPageOperation)
			result.Warnings = append(result.Warnings, Warning{key, err})
			continue
		}

		position++
		if !page.Contains(position) {
			continue
		}

		if warn := s.annotateValuation(ctx, asset); warn != nil {
			result.Warnings = append(result.Warnings, *warn)
		}
		s.annotateMetadata(asset, raw)

		if asset.IsLocked() {
			result.Locked = append(result.Locked, *asset)
		} else {
			result.Available = append(result.Available, *asset)
		}
		if result.Len() >= page.Size {
			break
		}
	}

	return result, nil
}

// CountAll returns the number of available and locked assets of owner. The
// whole index is walked, any failure restarts the walk from scratch since
// the index offers no way to resume it. Once the count policy is exhausted
// the error matches retry.ErrMaxRetriesExceeded.
func (s *Service) CountAll(
	ctx context.Context, owner string, contracts []string,
) (*Counts, error) {
	return retry.Do(ctx, s.walks, func(ctx context.Context) (*Counts, error) {
		return s.countWalk(ctx, owner, contracts)
	})
}

// CountAllForOwners runs CountAll for every owner concurrently. It fails if
// any of the counts fails.
func (s *Service) CountAllForOwners(
	ctx context.Context, owners []string, contracts []string,
) (map[string]Counts, error) {
	lock := &sync.Mutex{}
	counts := make(map[string]Counts, len(owners))

	eg, ctx := errgroup.WithContext(ctx)
	for i := range owners {
		owner := owners[i]
		eg.Go(func() error {
			c, err := s.CountAll(ctx, owner, contracts)
			if err != nil {
				return err
			}
			lock.Lock()
			defer lock.Unlock()
			counts[owner] = *c
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return counts, nil
}

func (s *Service) countWalk(
	ctx context.Context, owner string, contracts []string,
) (*Counts, error) {
	counts := &Counts{}
	for raw, err := range s.index.Assets(ctx, owner, contracts) {
		if err != nil {
			return nil, err
		}

		asset, err := s.classify(ctx, raw, false)
		if err != nil {
			var invalid invalidAssetError
			if errors.As(err, &invalid) {
				log.WithError(err).Warn("skipping asset from count")
				stats.AssetExcluded(countOperation)
				continue
			}
			return nil, err
		}
		if asset.IsLocked() {
			counts.Locked++
		} else {
			counts.Available++
		}
	}
	return counts, nil
}

type invalidAssetError struct {
	error
}

func (e invalidAssetError) Unwrap() error {
	return e.error
}

// classify resolves the custody id of the asset and reads its lock expiry,
// in this order. retried tells whether each read is retried on its own.
func (s *Service) classify(
	ctx context.Context, raw ports.RawAsset, retried bool,
) (*domain.Asset, error) {
	contract := raw.GetContractAddress()
	if err := domain.ValidateAddress(contract); err != nil {
		return nil, invalidAssetError{err}
	}
	tokenID, err := domain.ParseTokenID(raw.GetTokenID())
	if err != nil {
		return nil, invalidAssetError{err}
	}

	words, err := s.readCustody(
		ctx, retried, s.cfg.Contract.CustodyIDMethod, contract, tokenID,
	)
	if err != nil {
		return nil, err
	}
	custodyID := word(words, 0)

	words, err = s.readCustody(
		ctx, retried, s.cfg.Contract.LockExpiryMethod, custodyID,
	)
	if err != nil {
		return nil, err
	}
	state := domain.NewCustodyState(word(words, 0))
	stats.AssetAnnotated(state.Status.String())

	return &domain.Asset{
		ContractAddress: contract,
		TokenID:         tokenID.String(),
		CustodyID:       custodyID,
		State:           state,
		Valuation:       s.zeroValuation(),
	}, nil
}

// annotateValuation reads price and value of the asset, if the contract
// supports it. A failure leaves the valuation zero and is reported as
// warning since it does not affect classification.
func (s *Service) annotateValuation(
	ctx context.Context, asset *domain.Asset,
) *Warning {
	method := s.cfg.Contract.ValuationMethod
	if method == "" {
		return nil
	}

	words, err := s.readCustody(ctx, true, method, asset.CustodyID)
	if err != nil {
		log.WithError(err).Warnf("failed to read valuation of asset %s", asset.Key())
		return &Warning{asset.Key(), err}
	}
	asset.Valuation = domain.Valuation{
		Price: mathutil.NewAmount(word(words, 0), s.cfg.Decimals),
		Value: mathutil.NewAmount(word(words, 1), s.cfg.Decimals),
	}
	return nil
}

func (s *Service) annotateMetadata(asset *domain.Asset, raw ports.RawAsset) {
	asset.Metadata = domain.Metadata{
		Name:         raw.GetName(),
		Description:  raw.GetDescription(),
		Image:        mediautil.ToGatewayURL(raw.GetImage(), s.cfg.Gateway),
		AnimationURL: mediautil.ToGatewayURL(raw.GetAnimationURL(), s.cfg.Gateway),
		Attributes:   parseAttributes(raw.GetAttributes()),
	}
}

func (s *Service) zeroValuation() domain.Valuation {
	return domain.Valuation{
		Price: mathutil.NewAmount(new(big.Int), s.cfg.Decimals),
		Value: mathutil.NewAmount(new(big.Int), s.cfg.Decimals),
	}
}

// parseAttributes accepts both the standard list of traits and a plain
// key/value object.
func parseAttributes(raw json.RawMessage) []domain.Attribute {
	if len(strings.TrimSpace(string(raw))) <= 0 {
		return nil
	}

	var list []domain.Attribute
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}

	var object map[string]interface{}
	if err := json.Unmarshal(raw, &object); err != nil {
		log.WithError(err).Debug("dropping malformed asset attributes")
		return nil
	}
	keys := make([]string, 0, len(object))
	for k := range object {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attributes := make([]domain.Attribute, 0, len(object))
	for _, k := range keys {
		attributes = append(attributes, domain.Attribute{TraitType: k, Value: object[k]})
	}
	return attributes
}
