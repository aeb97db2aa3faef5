package httpinterface

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-custody/internal/interfaces"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

type ServiceOpts struct {
	Address     string
	CustodySvc  CustodyService
	CheckoutSvc CheckoutService
	Decimals    int32
}

func (o ServiceOpts) validate() error {
	if o.Address == "" {
		return fmt.Errorf("missing listening address")
	}
	if o.CustodySvc == nil {
		return fmt.Errorf("missing custody service")
	}
	if o.Decimals <= 0 {
		return fmt.Errorf("decimals must be a positive number")
	}
	return nil
}

type service struct {
	opts   ServiceOpts
	server *http.Server
	addr   net.Addr
}

func NewService(opts ServiceOpts) (interfaces.Service, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("invalid opts: %s", err)
	}
	return &service{opts: opts}, nil
}

func (s *service) Start() error {
	lis, err := net.Listen("tcp", s.opts.Address)
	if err != nil {
		return err
	}

	s.server = &http.Server{
		Handler: NewRouter(
			s.opts.CustodySvc, s.opts.CheckoutSvc, s.opts.Decimals,
		),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	s.addr = lis.Addr()

	go func() {
		if err := s.server.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("http interface stopped unexpectedly")
		}
	}()

	log.Infof("http interface listening on %s", s.addr)
	return nil
}

func (s *service) Stop() {
	if s.server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("failed to gracefully stop http interface")
	}
	log.Debug("disabled http interface")
}
