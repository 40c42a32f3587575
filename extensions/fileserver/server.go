package fileserver

import (
	"errors"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/D-DSOLUTIONS/ddsolutions-webpage/extensions/log"
	"github.com/sagernet/sing/common"
	E "github.com/sagernet/sing/common/exceptions"
	M "github.com/sagernet/sing/common/metadata"
	"golang.org/x/net/netutil"
)

type Server struct {
	root    string
	listen  M.Socksaddr
	options options

	access   sync.Mutex
	listener net.Listener
	server   *http.Server
	done     chan struct{}
}

// NewServer checks the document root and prepares a server for it. Nothing is
// bound until Start.
func NewServer(root string, listen M.Socksaddr, opts ...Option) (*Server, error) {
	if root == "" {
		return nil, E.New("missing document root")
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, E.Cause(err, "resolve document root")
	}
	if !common.FileExists(root) {
		return nil, E.New("document root ", root, " does not exist")
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, E.Cause(err, "stat document root")
	}
	if !info.IsDir() {
		return nil, E.New("document root ", root, " is not a directory")
	}
	return &Server{
		root:    root,
		listen:  listen,
		options: newOptions(opts),
	}, nil
}

func (s *Server) Root() string {
	return s.root
}

// Start binds the listen address and serves in the background. A port held by
// another socket yields an error accepted by IsAddressInUse.
func (s *Server) Start() error {
	s.access.Lock()
	defer s.access.Unlock()
	if s.listener != nil {
		return E.New("server already started")
	}

	listener, err := net.Listen("tcp", s.listen.String())
	if err != nil {
		return E.Cause(err, "listen ", s.listen)
	}
	if s.options.maxConnections > 0 {
		listener = netutil.LimitListener(listener, s.options.maxConnections)
	}

	s.listener = listener
	s.server = &http.Server{
		Handler:           newHandler(s.root, &s.options),
		ErrorLog:          log.NewErrorLog(s.options.logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.done = make(chan struct{})
	go s.loop(s.server, listener, s.done)
	return nil
}

func (s *Server) loop(server *http.Server, listener net.Listener, done chan struct{}) {
	defer close(done)
	err := server.Serve(listener)
	if err == nil || errors.Is(err, http.ErrServerClosed) || E.IsClosed(err) {
		return
	}
	s.options.logger.Error(E.Cause(err, "serve"))
}

// Addr returns the bound address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.access.Lock()
	defer s.access.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Port returns the bound TCP port. It differs from the configured one when
// that was zero.
func (s *Server) Port() uint16 {
	if addr, ok := s.Addr().(*net.TCPAddr); ok {
		return uint16(addr.Port)
	}
	return s.listen.Port
}

func (s *Server) URL() string {
	return "http://localhost:" + strconv.Itoa(int(s.Port()))
}

// Close stops accepting and drops open connections. In-flight requests are
// not waited for.
func (s *Server) Close() error {
	s.access.Lock()
	server, done := s.server, s.done
	s.access.Unlock()
	if server == nil {
		return nil
	}
	err := server.Close()
	<-done
	return err
}
