package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hupe1980/agentsociety/config"
	"github.com/hupe1980/agentsociety/core"
	"github.com/hupe1980/agentsociety/internal/metrics"
	"github.com/hupe1980/agentsociety/logging"
	"github.com/hupe1980/agentsociety/wire"
)

// ErrEarClosed is returned by Wait after Close.
var ErrEarClosed = errors.New("ear: closed")

// ErrServing is returned by Wait while the accept loop is running; both
// would compete for the same connections.
var ErrServing = errors.New("ear: accept loop is running")

const maxAcceptBackoff = time.Second

// EarOptions configures an Ear.
type EarOptions struct {
	// Name of the owning agent, attached to logs and metrics.
	Name string
	// ReadTimeout bounds how long one connection may take to deliver its
	// frame. Zero or negative disables the deadline.
	ReadTimeout time.Duration
	// MaxFieldSize caps instruction and extra bodies. Zero means no cap.
	MaxFieldSize uint32
	Logger       logging.Logger
}

// Ear is the listening endpoint of one agent. The bound port never changes
// after construction.
type Ear struct {
	name        string
	listener    net.Listener
	port        int
	resolver    Resolver
	handler     Handler
	decoder     wire.Decoder
	readTimeout time.Duration
	logger      logging.Logger

	serving   atomic.Bool
	mu        sync.Mutex // orders wg.Add against close(closed)
	closed    chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewEar binds the first free port in [PortStart, PortStart+PortRange) on
// cfg.Host, scanning in ascending order. It fails with
// core.ErrResourceExhausted when every port is taken.
func NewEar(cfg config.Network, resolver Resolver, handler Handler, optFns ...func(o *EarOptions)) (*Ear, error) {
	if resolver == nil {
		return nil, fmt.Errorf("ear: resolver is required")
	}
	if handler == nil {
		return nil, fmt.Errorf("ear: handler is required")
	}

	opts := EarOptions{
		ReadTimeout:  cfg.ReadTimeout,
		MaxFieldSize: cfg.MaxFieldBytes,
		Logger:       logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	listener, port, err := bind(cfg.Host, cfg.PortStart, cfg.PortRange)
	if err != nil {
		return nil, err
	}

	e := &Ear{
		name:        opts.Name,
		listener:    listener,
		port:        port,
		resolver:    resolver,
		handler:     handler,
		decoder:     wire.Decoder{MaxFieldSize: opts.MaxFieldSize},
		readTimeout: opts.ReadTimeout,
		logger:      logging.With(logging.OrNoOp(opts.Logger), "agent", opts.Name, "component", "ear"),
		closed:      make(chan struct{}),
	}
	e.logger.Debug("ear bound", "addr", listener.Addr().String())
	return e, nil
}

func bind(host string, start, size int) (net.Listener, int, error) {
	for port := start; port < start+size; port++ {
		ln, err := net.Listen("tcp", net.JoinHostPort(host, strconv.Itoa(port)))
		if err != nil {
			continue
		}
		return ln, port, nil
	}
	return nil, 0, core.Errorf("ear.bind", core.ErrResourceExhausted,
		"no available port in %s [%d, %d)", host, start, start+size)
}

// Port returns the bound port.
func (e *Ear) Port() int { return e.port }

// Addr returns the bound address.
func (e *Ear) Addr() net.Addr { return e.listener.Addr() }

// Serve runs the accept loop until ctx is cancelled or Close is called, then
// returns nil. Each accepted connection is handled on its own goroutine so a
// slow sender never blocks the next accept. Per-connection failures are
// logged and never end the loop.
func (e *Ear) Serve(ctx context.Context) error {
	if !e.serving.CompareAndSwap(false, true) {
		return ErrServing
	}
	defer e.serving.Store(false)

	stop := context.AfterFunc(ctx, func() { _ = e.Close() })
	defer stop()

	e.logger.Info("listening", "port", e.port)

	var backoff time.Duration
	for {
		conn, err := e.listener.Accept()
		if err != nil {
			if e.isClosed() {
				return nil
			}
			// Accept errors such as EMFILE are transient from the loop's
			// point of view; back off like net/http does.
			if backoff == 0 {
				backoff = 5 * time.Millisecond
			} else if backoff *= 2; backoff > maxAcceptBackoff {
				backoff = maxAcceptBackoff
			}
			e.logger.Error("accept failed", "error", err, "retry_in", backoff)
			select {
			case <-time.After(backoff):
			case <-e.closed:
				return nil
			}
			continue
		}
		backoff = 0

		if !e.track() {
			_ = conn.Close()
			return nil
		}
		go e.handle(ctx, conn)
	}
}

// Wait performs exactly one accept on the bound endpoint and returns once a
// peer connects, without decoding anything. It is a rendezvous signal, not a
// message transport, and cannot run while Serve does.
func (e *Ear) Wait(ctx context.Context) error {
	if e.isClosed() {
		return ErrEarClosed
	}
	if !e.serving.CompareAndSwap(false, true) {
		return ErrServing
	}
	defer e.serving.Store(false)

	e.logger.Info("waiting for response", "port", e.port)

	// Unblock Accept on cancellation by moving the listener deadline.
	type deadliner interface{ SetDeadline(time.Time) error }
	fired := make(chan struct{})
	stop := context.AfterFunc(ctx, func() {
		defer close(fired)
		if dl, ok := e.listener.(deadliner); ok {
			_ = dl.SetDeadline(time.Now())
		}
	})
	defer func() {
		if !stop() {
			<-fired
			if dl, ok := e.listener.(deadliner); ok {
				_ = dl.SetDeadline(time.Time{})
			}
		}
	}()

	conn, err := e.listener.Accept()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if e.isClosed() {
			return ErrEarClosed
		}
		return fmt.Errorf("ear: wait: %w", err)
	}
	_ = conn.Close()

	e.logger.Info("response generated", "remote", conn.RemoteAddr().String())
	return nil
}

// Close stops accepting and waits for in-flight connections to finish.
func (e *Ear) Close() error {
	var err error
	e.closeOnce.Do(func() {
		e.mu.Lock()
		close(e.closed)
		e.mu.Unlock()
		err = e.listener.Close()
	})
	e.wg.Wait()
	return err
}

// track registers one in-flight connection unless the Ear is closed.
func (e *Ear) track() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.isClosed() {
		return false
	}
	e.wg.Add(1)
	return true
}

func (e *Ear) isClosed() bool {
	select {
	case <-e.closed:
		return true
	default:
		return false
	}
}

func (e *Ear) handle(ctx context.Context, conn net.Conn) {
	defer e.wg.Done()
	defer conn.Close()

	connID := core.NewID()
	log := logging.With(e.logger, "conn_id", connID, "remote", conn.RemoteAddr().String())

	inFlight := metrics.ConnectionsInFlight.WithLabelValues(e.name)
	inFlight.Inc()
	defer inFlight.Dec()

	defer func() {
		if r := recover(); r != nil {
			log.Error("handler panicked", "panic", fmt.Sprint(r))
		}
	}()

	if !isLoopback(conn.RemoteAddr()) {
		log.Warn("unknown message: connection is not from loopback")
		metrics.FramesRejected.WithLabelValues(e.name, metrics.ReasonNonLoopback).Inc()
		return
	}

	if e.readTimeout > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(e.readTimeout))
	}

	msg, err := e.receive(conn)
	if err != nil {
		log.Warn("something's wrong with inbound message", "error", err)
		metrics.FramesRejected.WithLabelValues(e.name, rejectReason(err)).Inc()
		return
	}
	msg.ConnID = connID

	log.Debug("message received", "from", msg.From.Name(), "kind", msg.Kind.String(),
		"instruction_bytes", len(msg.Instruction), "extra_bytes", len(msg.Extra))
	metrics.FramesReceived.WithLabelValues(e.name, msg.Kind.String()).Inc()

	e.handler.Hear(ctx, msg)
}

// receive decodes one frame and validates sender then kind.
func (e *Ear) receive(conn net.Conn) (Inbound, error) {
	frame, err := e.decoder.Decode(conn)
	if err != nil {
		return Inbound{}, err
	}
	peer, ok := e.resolver.Lookup(frame.Sender)
	if !ok {
		return Inbound{}, core.Errorf("ear.receive", core.ErrInvalidSender, "%q is not a friend", frame.Sender)
	}
	if !frame.Kind.Valid() {
		return Inbound{}, core.Errorf("ear.receive", core.ErrInvalidMessageKind, "kind %d", uint32(frame.Kind))
	}
	return Inbound{
		From:        peer,
		Kind:        frame.Kind,
		Instruction: frame.Instruction,
		Extra:       frame.Extra,
	}, nil
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, core.ErrInvalidSender):
		return metrics.ReasonSender
	case errors.Is(err, core.ErrInvalidMessageKind):
		return metrics.ReasonKind
	default:
		return metrics.ReasonMalformed
	}
}

func isLoopback(addr net.Addr) bool {
	switch a := addr.(type) {
	case *net.TCPAddr:
		return a.IP.IsLoopback()
	default:
		host, _, err := net.SplitHostPort(addr.String())
		if err != nil {
			return false
		}
		ip := net.ParseIP(host)
		return ip != nil && ip.IsLoopback()
	}
}
