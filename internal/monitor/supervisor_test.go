package monitor

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// scriptedConn is a Conn fed by a channel of read results.
type scriptedConn struct {
	reads chan readResult

	mu     sync.Mutex
	writes []writtenFrame
	closed bool
}

type readResult struct {
	msgType int
	data    []byte
	err     error
}

type writtenFrame struct {
	kind int
	data []byte
}

func newScriptedConn() *scriptedConn {
	return &scriptedConn{reads: make(chan readResult, 16)}
}

func (c *scriptedConn) ReadMessage() (int, []byte, error) {
	r, ok := <-c.reads
	if !ok {
		return 0, nil, errors.New("connection closed")
	}
	return r.msgType, r.data, r.err
}

func (c *scriptedConn) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errors.New("write on closed connection")
	}
	c.writes = append(c.writes, writtenFrame{kind: messageType, data: data})
	return nil
}

func (c *scriptedConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *scriptedConn) written() []writtenFrame {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]writtenFrame, len(c.writes))
	copy(out, c.writes)
	return out
}

func (c *scriptedConn) pingCount() int {
	n := 0
	for _, w := range c.written() {
		if w.kind == websocket.PingMessage {
			n++
		}
	}
	return n
}

// recordingHandler collects notifications in arrival order.
type recordingHandler struct {
	mu   sync.Mutex
	seen []Notification
}

func (h *recordingHandler) Handle(_ context.Context, n Notification) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seen = append(h.seen, n)
}

func (h *recordingHandler) notifications() []Notification {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Notification, len(h.seen))
	copy(out, h.seen)
	return out
}

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func closeRead(code int) readResult {
	return readResult{err: &websocket.CloseError{Code: code}}
}

func notificationRead(sig string, slot uint64) readResult {
	data := `{"jsonrpc":"2.0","method":"logsNotification","params":{"subscription":1,"result":{"signature":"` +
		sig + `","slot":` + itoa(slot) + `,"logs":["Program log: x"]}}}`
	return readResult{msgType: websocket.TextMessage, data: []byte(data)}
}

func itoa(n uint64) string {
	if n == 0 {
		return "0"
	}
	var b []byte
	for n > 0 {
		b = append([]byte{byte('0' + n%10)}, b...)
		n /= 10
	}
	return string(b)
}

func TestSupervisor_ExhaustsReconnectBudget(t *testing.T) {
	dials := 0
	dialer := func(context.Context, string) (Conn, error) {
		dials++
		return nil, errors.New("connection refused")
	}

	s := NewSupervisor("ws://test", DefaultMentions(), &recordingHandler{}, SupervisorOptions{
		Dialer:    dialer,
		BaseDelay: time.Millisecond,
		Logger:    quietLogger(),
	})

	err := s.Run(context.Background())
	if !errors.Is(err, ErrMaxRetriesExceeded) {
		t.Fatalf("err = %v, want ErrMaxRetriesExceeded", err)
	}
	// Initial dial plus one per backoff delay; the failure after the
	// fifth reconnect exhausts the budget.
	if dials != 6 {
		t.Errorf("dials = %d, want 6", dials)
	}
}

func TestSupervisor_BackoffDelayProgression(t *testing.T) {
	dialer := func(context.Context, string) (Conn, error) {
		return nil, errors.New("connection refused")
	}

	base := 5 * time.Millisecond
	s := NewSupervisor("ws://test", DefaultMentions(), &recordingHandler{}, SupervisorOptions{
		Dialer:    dialer,
		BaseDelay: base,
		Logger:    quietLogger(),
	})

	var delays []time.Duration
	s.sleep = func(_ context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}

	err := s.Run(context.Background())
	if !errors.Is(err, ErrMaxRetriesExceeded) {
		t.Fatalf("err = %v, want ErrMaxRetriesExceeded", err)
	}

	// The delay grows linearly with the attempt counter: one base unit
	// after the first failure, five after the fifth.
	want := []time.Duration{base, 2 * base, 3 * base, 4 * base, 5 * base}
	if len(delays) != len(want) {
		t.Fatalf("delays = %v, want %v", delays, want)
	}
	for i := range want {
		if delays[i] != want[i] {
			t.Errorf("delay %d = %v, want %v", i+1, delays[i], want[i])
		}
	}
}

func TestSupervisor_SubscriptionIsFirstOutboundFrame(t *testing.T) {
	conn := newScriptedConn()
	conn.reads <- closeRead(websocket.CloseNormalClosure)

	dialed := false
	dialer := func(context.Context, string) (Conn, error) {
		if dialed {
			return nil, errors.New("done")
		}
		dialed = true
		return conn, nil
	}

	s := NewSupervisor("ws://test", []string{"ProgA"}, &recordingHandler{}, SupervisorOptions{
		Dialer:        dialer,
		BaseDelay:     time.Millisecond,
		MaxReconnects: 1,
		Logger:        quietLogger(),
	})

	err := s.Run(context.Background())
	if !errors.Is(err, ErrMaxRetriesExceeded) {
		t.Fatalf("err = %v", err)
	}

	writes := conn.written()
	if len(writes) == 0 {
		t.Fatal("no frames written")
	}
	if writes[0].kind != websocket.TextMessage {
		t.Fatalf("first frame type = %d, want text", writes[0].kind)
	}
	if !strings.Contains(string(writes[0].data), `"logsSubscribe"`) {
		t.Errorf("first frame = %s, want the subscription request", writes[0].data)
	}
}

func TestSupervisor_GracefulCloseResetsBudget(t *testing.T) {
	// Two failures, then a session that ends gracefully, then six more
	// failures. The graceful close must reset the budget, so the fatal
	// error arrives only after six post-reset failures.
	dials := 0
	dialer := func(context.Context, string) (Conn, error) {
		dials++
		switch {
		case dials <= 2:
			return nil, errors.New("refused")
		case dials == 3:
			conn := newScriptedConn()
			conn.reads <- notificationRead("sig1", 5)
			conn.reads <- closeRead(websocket.CloseGoingAway)
			return conn, nil
		default:
			return nil, errors.New("refused")
		}
	}

	handler := &recordingHandler{}
	s := NewSupervisor("ws://test", DefaultMentions(), handler, SupervisorOptions{
		Dialer:    dialer,
		BaseDelay: time.Millisecond,
		Logger:    quietLogger(),
	})

	err := s.Run(context.Background())
	if !errors.Is(err, ErrMaxRetriesExceeded) {
		t.Fatalf("err = %v", err)
	}
	if dials != 9 {
		t.Errorf("dials = %d, want 9 (2 failures, 1 graceful session, 6 failures)", dials)
	}

	seen := handler.notifications()
	if len(seen) != 1 || seen[0].Signature != "sig1" {
		t.Errorf("notifications = %+v, want sig1", seen)
	}
}

func TestSupervisor_ForwardsNotificationsInOrder(t *testing.T) {
	conn := newScriptedConn()
	conn.reads <- notificationRead("sig1", 1)
	conn.reads <- readResult{msgType: websocket.TextMessage, data: []byte(`{"jsonrpc":"2.0","id":1,"result":55}`)}
	conn.reads <- readResult{msgType: websocket.TextMessage, data: []byte(`{corrupt`)}
	conn.reads <- notificationRead("sig2", 2)
	conn.reads <- closeRead(websocket.CloseNormalClosure)

	dialed := false
	dialer := func(context.Context, string) (Conn, error) {
		if dialed {
			return nil, errors.New("done")
		}
		dialed = true
		return conn, nil
	}

	handler := &recordingHandler{}
	s := NewSupervisor("ws://test", DefaultMentions(), handler, SupervisorOptions{
		Dialer:        dialer,
		BaseDelay:     time.Millisecond,
		MaxReconnects: 1,
		Logger:        quietLogger(),
	})
	s.Run(context.Background())

	seen := handler.notifications()
	if len(seen) != 2 {
		t.Fatalf("notifications = %d, want 2 (confirmation and corrupt frames skipped)", len(seen))
	}
	if seen[0].Signature != "sig1" || seen[1].Signature != "sig2" {
		t.Errorf("out of order: %+v", seen)
	}
}

func TestSupervisor_KeepalivePings(t *testing.T) {
	conn := newScriptedConn()

	dialed := false
	dialer := func(context.Context, string) (Conn, error) {
		if dialed {
			return nil, errors.New("done")
		}
		dialed = true
		return conn, nil
	}

	s := NewSupervisor("ws://test", DefaultMentions(), &recordingHandler{}, SupervisorOptions{
		Dialer:        dialer,
		BaseDelay:     time.Millisecond,
		MaxReconnects: 1,
		PingInterval:  5 * time.Millisecond,
		Logger:        quietLogger(),
	})

	done := make(chan error, 1)
	go func() { done <- s.Run(context.Background()) }()

	deadline := time.After(2 * time.Second)
	for conn.pingCount() < 2 {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for keepalive pings")
		case <-time.After(time.Millisecond):
		}
	}

	// End the session gracefully, then let the reconnect budget drain.
	conn.reads <- closeRead(websocket.CloseNormalClosure)
	close(conn.reads)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("supervisor did not stop")
	}
}

func TestSupervisor_ContextCancellation(t *testing.T) {
	conn := newScriptedConn()

	dialer := func(context.Context, string) (Conn, error) {
		return conn, nil
	}

	s := NewSupervisor("ws://test", DefaultMentions(), &recordingHandler{}, SupervisorOptions{
		Dialer:    dialer,
		BaseDelay: time.Millisecond,
		Logger:    quietLogger(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(10 * time.Millisecond)
	cancel()
	// The watcher closes the conn; unblock the scripted read loop.
	close(conn.reads)

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("supervisor did not stop on cancellation")
	}
}
