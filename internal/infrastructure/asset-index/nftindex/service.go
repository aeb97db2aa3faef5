package nftindex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"net/http"
	"net/url"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"github.com/tdex-network/tdex-custody/internal/core/ports"
	"github.com/tdex-network/tdex-custody/pkg/circuitbreaker"
)

const (
	ownedNFTsPath  = "/getNFTsForOwner"
	apiKeyHeader   = "X-API-Key"
	defaultTimeout = 15 * time.Second
	maxPageSize    = 100
	maxBodySize    = 10 << 20
)

var (
	// ErrMissingEndpoint ...
	ErrMissingEndpoint = errors.New("missing index endpoint")
	// ErrIndexUnavailable is returned without contacting the index while its
	// circuit breaker refuses requests.
	ErrIndexUnavailable = errors.New("asset index unavailable")
)

type service struct {
	endpoint string
	apiKey   string
	pageSize int
	http     *http.Client
	cb       *gobreaker.CircuitBreaker
}

// NewService returns an AssetIndex backed by an HTTP ownership index that
// pages results with an opaque pageKey cursor.
func NewService(
	endpoint, apiKey string, pageSize int, timeout time.Duration,
) (ports.AssetIndex, error) {
	if endpoint == "" {
		return nil, ErrMissingEndpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid index endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid index endpoint scheme %q", u.Scheme)
	}
	if pageSize <= 0 || pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &service{
		endpoint: endpoint,
		apiKey:   apiKey,
		pageSize: pageSize,
		http:     &http.Client{Timeout: timeout},
		cb:       circuitbreaker.NewCircuitBreaker(u.Host),
	}, nil
}

// Assets walks the index lazily: a new page is fetched only when the
// consumer has gone through the previous one. A fetch failure is yielded once
// and ends the sequence.
func (s *service) Assets(
	ctx context.Context, owner string, contracts []string,
) iter.Seq2[ports.RawAsset, error] {
	return func(yield func(ports.RawAsset, error) bool) {
		pageKey := ""
		for {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}

			page, err := s.fetchPage(ctx, owner, contracts, pageKey)
			if err != nil {
				yield(nil, err)
				return
			}
			log.Debugf(
				"fetched %d assets of %s from index", len(page.OwnedNFTs), owner,
			)

			for _, n := range page.OwnedNFTs {
				if !yield(n, nil) {
					return
				}
			}

			if page.PageKey == "" || page.PageKey == pageKey {
				return
			}
			pageKey = page.PageKey
		}
	}
}

func (s *service) fetchPage(
	ctx context.Context, owner string, contracts []string, pageKey string,
) (*ownedNFTsResponse, error) {
	query := url.Values{}
	query.Set("owner", owner)
	query.Set("withMetadata", "true")
	query.Set("pageSize", strconv.Itoa(s.pageSize))
	for _, c := range contracts {
		query.Add("contractAddresses[]", c)
	}
	if pageKey != "" {
		query.Set("pageKey", pageKey)
	}

	iResp, err := s.cb.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(
			ctx, http.MethodGet, s.endpoint+ownedNFTsPath+"?"+query.Encode(), nil,
		)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		if s.apiKey != "" {
			req.Header.Set(apiKeyHeader, s.apiKey)
		}

		res, err := s.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer res.Body.Close()

		body, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize))
		if err != nil {
			return nil, err
		}
		if res.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("index: unexpected status %d: %s", res.StatusCode, body)
		}

		resp := &ownedNFTsResponse{}
		if err := json.Unmarshal(body, resp); err != nil {
			return nil, fmt.Errorf("index: invalid response: %w", err)
		}
		return resp, nil
	})
	if err != nil {
		if circuitbreaker.IsOpen(err) {
			log.WithError(err).Debugf("index request for %s refused by circuit breaker", owner)
			return nil, fmt.Errorf("%w: %w", ErrIndexUnavailable, err)
		}
		return nil, err
	}
	return iResp.(*ownedNFTsResponse), nil
}
