package monitor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"solana-pool-watch/internal/observability"
	"solana-pool-watch/internal/solana"
)

// Supervisor defaults.
const (
	// DefaultBaseDelay is the linear backoff unit between reconnects.
	DefaultBaseDelay = 5000 * time.Millisecond
	// DefaultMaxReconnects bounds consecutive transport failures before
	// the supervisor gives up.
	DefaultMaxReconnects = 5
	// DefaultPingInterval is the keepalive ping period.
	DefaultPingInterval = 30 * time.Second

	// outboundQueueSize bounds the frame queue shared by the keepalive
	// producer and the writer.
	outboundQueueSize = 32

	handshakeTimeout = 10 * time.Second
	writeTimeout     = 10 * time.Second
)

// ErrMaxRetriesExceeded is returned when consecutive transport failures
// exhaust the reconnect budget.
var ErrMaxRetriesExceeded = errors.New("max reconnect attempts exceeded")

// Conn is the WebSocket surface the supervisor drives. Satisfied by
// *websocket.Conn; tests substitute scripted connections.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Dialer establishes one WebSocket connection to an endpoint.
type Dialer func(ctx context.Context, endpoint string) (Conn, error)

func defaultDialer(ctx context.Context, endpoint string) (Conn, error) {
	d := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	conn, _, err := d.DialContext(ctx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("websocket dial: %w", err)
	}
	return conn, nil
}

// NotificationHandler consumes decoded notifications strictly in
// arrival order.
type NotificationHandler interface {
	Handle(ctx context.Context, n Notification)
}

// Supervisor owns one subscription connection: it dials, subscribes,
// keeps the connection alive, and forwards inbound frames to the
// handler. On transport failure it reconnects with linear backoff up
// to a ceiling; a peer-initiated graceful close resets the failure
// budget but still triggers a reconnect.
type Supervisor struct {
	endpoint string
	mentions []string
	handler  NotificationHandler

	dialer        Dialer
	baseDelay     time.Duration
	maxReconnects int
	pingInterval  time.Duration
	logger        *log.Logger
	sleep         func(ctx context.Context, d time.Duration) error

	// Connection state, owned exclusively by Run's goroutine.
	attempts    int
	lastConnect time.Time
}

// SupervisorOptions configures a Supervisor.
type SupervisorOptions struct {
	Dialer        Dialer
	BaseDelay     time.Duration
	MaxReconnects int
	PingInterval  time.Duration
	Logger        *log.Logger
}

// NewSupervisor creates a stream supervisor. The mentions list selects
// which program IDs the subscription filters on.
func NewSupervisor(endpoint string, mentions []string, handler NotificationHandler, opts SupervisorOptions) *Supervisor {
	s := &Supervisor{
		endpoint:      endpoint,
		mentions:      mentions,
		handler:       handler,
		dialer:        opts.Dialer,
		baseDelay:     opts.BaseDelay,
		maxReconnects: opts.MaxReconnects,
		pingInterval:  opts.PingInterval,
		logger:        opts.Logger,
	}
	if s.dialer == nil {
		s.dialer = defaultDialer
	}
	if s.baseDelay <= 0 {
		s.baseDelay = DefaultBaseDelay
	}
	if s.maxReconnects <= 0 {
		s.maxReconnects = DefaultMaxReconnects
	}
	if s.pingInterval <= 0 {
		s.pingInterval = DefaultPingInterval
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	s.sleep = sleepContext
	return s
}

// sleepContext waits out a backoff delay unless the context ends first.
func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// DefaultMentions returns the program IDs the subscription watches:
// pool creations surface as transactions mentioning either token
// program.
func DefaultMentions() []string {
	return []string{solana.TokenProgram, solana.Token2022Program}
}

// Run drives the connect/read/reconnect loop until the context is
// cancelled or the reconnect budget is exhausted. Only exhaustion is a
// fatal error; every other condition surfaces as a log line.
func (s *Supervisor) Run(ctx context.Context) error {
	for {
		err := s.session(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if err == nil {
			// Graceful close: reset the failure budget and reconnect
			// without backoff.
			s.logger.Printf("[stream] connection closed gracefully, reconnecting")
			observability.RecordGracefulEnd()
			s.attempts = 0
			continue
		}

		s.attempts++
		if s.attempts > s.maxReconnects {
			s.logger.Printf("[stream] giving up after %d consecutive failures: %v", s.attempts, err)
			return fmt.Errorf("%w after %d attempts: %v", ErrMaxRetriesExceeded, s.attempts, err)
		}

		delay := s.baseDelay * time.Duration(s.attempts)
		s.logger.Printf("[stream] connection failed (attempt %d/%d), reconnecting in %v: %v",
			s.attempts, s.maxReconnects, delay, err)
		observability.RecordReconnect()

		if err := s.sleep(ctx, delay); err != nil {
			return err
		}
	}
}

// outboundFrame is one queued write.
type outboundFrame struct {
	kind int
	data []byte
}

// session runs one connection lifetime: dial, subscribe, pump frames.
// Returns nil only for a peer-initiated graceful close.
func (s *Supervisor) session(ctx context.Context) error {
	conn, err := s.dialer(ctx, s.endpoint)
	if err != nil {
		return err
	}

	s.lastConnect = time.Now()
	s.logger.Printf("[stream] connected to %s", s.endpoint)
	observability.RecordConnect()

	frame, err := subscribeFrame(s.mentions, solana.CommitmentProcessed)
	if err != nil {
		conn.Close()
		return err
	}

	// The subscription request is enqueued before the keepalive starts,
	// so it is always the first outbound frame.
	outbound := make(chan outboundFrame, outboundQueueSize)
	outbound <- outboundFrame{kind: websocket.TextMessage, data: frame}

	done := make(chan struct{})
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		s.writeLoop(conn, outbound, done)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		s.pingLoop(outbound, done)
	}()

	// Unblock the read loop when the caller cancels.
	wg.Add(1)
	go func() {
		defer wg.Done()
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	readErr := s.readLoop(ctx, conn)

	close(done)
	conn.Close()
	wg.Wait()

	if isGracefulClose(readErr) {
		return nil
	}
	return readErr
}

// readLoop is the single consumer of inbound frames; notifications are
// handled strictly in arrival order.
func (s *Supervisor) readLoop(ctx context.Context, conn Conn) error {
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		if msgType != websocket.TextMessage {
			continue
		}

		n, ok, err := decodeNotification(data)
		if err != nil {
			s.logger.Printf("[stream] dropping malformed frame: %v", err)
			continue
		}
		if !ok {
			continue
		}
		observability.RecordNotification()
		s.handler.Handle(ctx, n)
	}
}

// writeLoop drains the outbound queue onto the connection. A write
// failure ends the loop; the read loop observes the broken connection
// and drives the reconnect.
func (s *Supervisor) writeLoop(conn Conn, outbound <-chan outboundFrame, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case f := <-outbound:
			if err := conn.WriteMessage(f.kind, f.data); err != nil {
				s.logger.Printf("[stream] write failed: %v", err)
				return
			}
		}
	}
}

// pingLoop enqueues a keepalive ping every interval. If the queue is
// unavailable the task ends without closing the connection.
func (s *Supervisor) pingLoop(outbound chan<- outboundFrame, done <-chan struct{}) {
	ticker := time.NewTicker(s.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			select {
			case outbound <- outboundFrame{kind: websocket.PingMessage}:
			case <-done:
				return
			}
		}
	}
}

// isGracefulClose reports whether the read error is a peer-initiated
// clean shutdown rather than a transport failure.
func isGracefulClose(err error) bool {
	return websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway)
}
