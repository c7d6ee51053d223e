package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"golang.org/x/net/netutil"
	"golang.org/x/sync/errgroup"

	"github.com/funnelhttp/funnel/cors"
	"github.com/funnelhttp/funnel/metrics"
	"github.com/funnelhttp/funnel/router"
	"github.com/funnelhttp/funnel/web"
)

// Defaults for the admission and queueing limits.
const (
	DefaultMaxConnections  = 100
	DefaultChannelCapacity = 100
)

// Catcher overrides the response for a specific status code. It receives the
// request and the response about to be delivered; its result replaces the
// response when it converts cleanly, otherwise the original is kept.
type Catcher func(req *web.Request, resp *web.Response) (any, error)

// Server owns the listen address, the attached routers, and the dispatch
// configuration. All configuration happens before Run; the serving phase
// treats every configured value as read-only.
type Server struct {
	addr            string
	routers         []*router.Router
	appData         any
	maxConnections  int
	channelCapacity int
	cors            *cors.Config
	sessions        web.SessionStore
	catchers        map[int]Catcher
	log             *slog.Logger
	metrics         *metrics.Metrics

	running  atomic.Bool
	listener net.Listener
	submit   chan *processRequest
	procDone chan struct{}
}

// New returns a server that will listen on addr when Run is called.
func New(addr string) *Server {
	return &Server{
		addr:            addr,
		maxConnections:  DefaultMaxConnections,
		channelCapacity: DefaultChannelCapacity,
		catchers:        make(map[int]Catcher),
		log:             slog.Default(),
	}
}

// Attach adds a built router. Lookup tries attached routers in attachment
// order and stops at the first hit.
func (s *Server) Attach(r *router.Router) *Server {
	s.routers = append(s.routers, r)
	return s
}

// AppData sets the server-wide application value surfaced on every handler
// context.
func (s *Server) AppData(v any) *Server {
	s.appData = v
	return s
}

// CORS installs the CORS policy. Preflight requests short-circuit before
// route matching and every response produced afterwards carries the policy
// headers.
func (s *Server) CORS(c *cors.Config) *Server {
	s.cors = c
	return s
}

// SessionStore installs the session store collaborator.
func (s *Server) SessionStore(store web.SessionStore) *Server {
	s.sessions = store
	return s
}

// Catch registers a catcher for the given response status code.
func (s *Server) Catch(status int, c Catcher) *Server {
	s.catchers[status] = c
	return s
}

// MaxConnections bounds the number of concurrently served connections.
func (s *Server) MaxConnections(n int) *Server {
	if n > 0 {
		s.maxConnections = n
	}
	return s
}

// ChannelCapacity sets the submission channel capacity, the number of
// matched requests that may wait for the processor before submitters block.
func (s *Server) ChannelCapacity(n int) *Server {
	if n > 0 {
		s.channelCapacity = n
	}
	return s
}

// Logger sets the structured logger. Defaults to slog.Default.
func (s *Server) Logger(l *slog.Logger) *Server {
	if l != nil {
		s.log = l
	}
	return s
}

// Metrics installs Prometheus instrumentation of the dispatch core.
func (s *Server) Metrics(m *metrics.Metrics) *Server {
	s.metrics = m
	return s
}

// Addr returns the bound listener address. Valid once Serve has started.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Run binds the configured address and serves until an interrupt signal
// arrives. A bind failure is fatal and returned immediately.
func (s *Server) Run() error {
	return s.RunContext(context.Background())
}

// RunContext is Run with an externally controlled lifetime: cancelling ctx
// triggers the same cooperative shutdown as an interrupt signal.
func (s *Server) RunContext(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("server: bind %s: %w", s.addr, err)
	}

	return s.Serve(ctx, lis)
}

// Serve runs the acceptor and the response processor over the given
// listener until ctx is cancelled. The processor runs on the calling
// goroutine. The listener is closed on return.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	s.submit = make(chan *processRequest, s.channelCapacity)
	s.procDone = make(chan struct{})
	s.listener = netutil.LimitListener(lis, s.maxConnections)
	s.running.Store(true)

	s.log.Info("listening", "addr", lis.Addr().String(), "max_connections", s.maxConnections)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		<-ctx.Done()
		s.running.Store(false)
		return s.listener.Close()
	})

	g.Go(func() error {
		return s.acceptLoop(s.listener)
	})

	s.processLoop(ctx)

	if err := g.Wait(); err != nil && !isClosed(err) {
		return err
	}

	s.log.Info("server_stopped")
	return nil
}
