package transport

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/hupe1980/agentsociety/config"
	"github.com/hupe1980/agentsociety/core"
	"github.com/hupe1980/agentsociety/internal/metrics"
	"github.com/hupe1980/agentsociety/logging"
	"github.com/hupe1980/agentsociety/wire"
)

// MouthOptions configures a Mouth.
type MouthOptions struct {
	DialTimeout time.Duration
	Logger      logging.Logger
}

// Mouth sends frames on behalf of one agent. It holds no connection state
// and is safe for concurrent use.
type Mouth struct {
	sender      string
	host        string
	dialTimeout time.Duration
	logger      logging.Logger
}

// NewMouth returns a Mouth that stamps every frame with sender. The name
// must fit the wire sender field.
func NewMouth(sender string, cfg config.Network, optFns ...func(o *MouthOptions)) (*Mouth, error) {
	if err := wire.ValidateSender(sender); err != nil {
		return nil, err
	}

	opts := MouthOptions{
		DialTimeout: cfg.DialTimeout,
		Logger:      logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Mouth{
		sender:      sender,
		host:        cfg.Host,
		dialTimeout: opts.DialTimeout,
		logger:      logging.With(logging.OrNoOp(opts.Logger), "agent", sender, "component", "mouth"),
	}, nil
}

// Sender returns the name stamped on outgoing frames.
func (m *Mouth) Sender() string { return m.sender }

// Talk sends a default-kind message to the agent listening on port.
func (m *Mouth) Talk(ctx context.Context, port int, instruction, extra string) error {
	return m.Send(ctx, port, wire.KindDefault, instruction, extra)
}

// Send opens a connection to port, writes one frame and closes it. Nothing
// is read back and nothing is retried; failures wrap core.ErrDeliveryFailed.
func (m *Mouth) Send(ctx context.Context, port int, kind wire.Kind, instruction, extra string) error {
	data, err := wire.Encode(wire.Frame{
		Sender:      m.sender,
		Kind:        kind,
		Instruction: instruction,
		Extra:       extra,
	})
	if err != nil {
		return err
	}

	addr := net.JoinHostPort(m.host, strconv.Itoa(port))
	if err := m.deliver(ctx, addr, data); err != nil {
		m.logger.Warn("delivery failed", "addr", addr, "kind", kind.String(), "error", err)
		metrics.DeliveryFailures.WithLabelValues(m.sender).Inc()
		return core.NewError("mouth.send", fmt.Errorf("%w: %w", core.ErrDeliveryFailed, err), "")
	}

	m.logger.Debug("message sent", "addr", addr, "kind", kind.String(), "bytes", len(data))
	metrics.FramesSent.WithLabelValues(m.sender, kind.String()).Inc()
	return nil
}

func (m *Mouth) deliver(ctx context.Context, addr string, data []byte) error {
	d := net.Dialer{Timeout: m.dialTimeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetWriteDeadline(deadline)
	}
	_, err = conn.Write(data)
	return err
}
