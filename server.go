package gobanlist

import (
	"context"
	"time"

	"github.com/miekg/dns"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Server is a blocking DNS forwarder: queries for forbidden domains are
// answered with NXDOMAIN, everything else is forwarded upstream.
type Server struct {
	*serverOptions
	holder    *Holder
	UDPCli    *dns.Client
	TCPCli    *dns.Client
	UDPServer *dns.Server
	TCPServer *dns.Server
}

// NewServer creates a new server instance
func NewServer(opts ...ServerOption) (*Server, error) {
	o := newServerOptions()
	for _, f := range opts {
		if err := f(o); err != nil {
			return nil, err
		}
	}
	if len(o.Resolvers) == 0 {
		return nil, errors.New("server cannot work with no upstream resolvers")
	}

	checker, err := o.buildChecker()
	if err != nil {
		return nil, err
	}
	logrus.Infof("Banlist loaded: %d entries.", checker.Len())

	s := &Server{
		serverOptions: o,
		holder:        NewHolder(checker),
		UDPCli:        &dns.Client{Timeout: o.Timeout, Net: "udp"},
		TCPCli:        &dns.Client{Timeout: o.Timeout, Net: "tcp"},
		UDPServer:     &dns.Server{Addr: o.Listen, Net: "udp", ReusePort: o.ReusePort},
		TCPServer:     &dns.Server{Addr: o.Listen, Net: "tcp", ReusePort: o.ReusePort},
	}
	s.UDPServer.Handler = dns.HandlerFunc(s.Serve)
	s.TCPServer.Handler = dns.HandlerFunc(s.Serve)
	return s, nil
}

// Checker returns the currently active banlist checker.
func (s *Server) Checker() *Checker {
	return s.holder.Get()
}

// Run starts the DNS listeners plus the optional HTTP API and banlist
// reloader, and shuts everything down when the context is canceled.
func (s *Server) Run(ctx context.Context) error {
	logrus.Info("Start server at ", s.Listen)
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(s.UDPServer.ListenAndServe)
	eg.Go(s.TCPServer.ListenAndServe)

	if s.HTTPListen != "" {
		eg.Go(func() error {
			return s.runHTTP(ctx)
		})
	}
	if s.ReloadInterval > 0 && len(s.BanlistPaths) > 0 {
		eg.Go(func() error {
			return s.reloadLoop(ctx)
		})
	}

	eg.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.UDPServer.ShutdownContext(shutdownCtx); err != nil {
			logrus.WithError(err).Error("Fail to shut down UDP server.")
		}
		if err := s.TCPServer.ShutdownContext(shutdownCtx); err != nil {
			logrus.WithError(err).Error("Fail to shut down TCP server.")
		}
		return ctx.Err()
	})

	return eg.Wait()
}
