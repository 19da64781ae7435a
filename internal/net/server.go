package net

import (
	"net"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/voxelgate/server/internal/config"
)

// Server accepts TCP connections and creates Sessions. New sessions are
// handed to the game loop via a channel; the input system notices dead ones
// through Session.IsClosed.
type Server struct {
	listener   net.Listener
	nextID     atomic.Uint64
	newConns   chan *Session
	cfg        config.NetworkConfig
	serverName string
	log        *zap.Logger
	closeCh    chan struct{}
}

func NewServer(cfg config.NetworkConfig, serverName string, log *zap.Logger) (*Server, error) {
	ln, err := net.Listen("tcp", cfg.BindAddress)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener:   ln,
		newConns:   make(chan *Session, 64),
		cfg:        cfg,
		serverName: serverName,
		log:        log,
		closeCh:    make(chan struct{}),
	}, nil
}

// AcceptLoop runs in its own goroutine. It accepts connections, creates
// sessions, sends the hello packet, and pushes them onto the newConns
// channel.
func (s *Server) AcceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.closeCh:
				return // server shutting down
			default:
			}
			s.log.Error("accept failed", zap.Error(err))
			continue
		}

		id := s.nextID.Add(1)
		sess := NewSession(conn, id, s.cfg.InQueueSize, s.cfg.OutQueueSize,
			s.cfg.CompressThreshold, s.cfg.WriteTimeout, s.log)
		sess.Start(s.serverName)

		s.log.Info("client connected", zap.Uint64("session", id), zap.String("ip", sess.IP))

		select {
		case s.newConns <- sess:
		default:
			s.log.Warn("connection queue full, rejecting client")
			sess.Close()
		}
	}
}

// NewSessions returns the channel of newly connected sessions.
func (s *Server) NewSessions() <-chan *Session {
	return s.newConns
}

// Shutdown stops accepting new connections.
func (s *Server) Shutdown() {
	close(s.closeCh)
	s.listener.Close()
}

// Addr returns the listener's address.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}
