package chat

import (
	"aresclub/aresclub/utils/types"
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

type State int32

const (
	StateConnecting State = iota
	StateRegistered
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateRegistered:
		return "registered"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Conn is the transport behind one live connection.
type Conn interface {
	WriteEvent(ctx context.Context, ev types.Event) error
	Close(reason string) error
}

// Client is one physical connection. It moves connecting -> registered -> closed
// and never goes back.
type Client struct {
	ID       uuid.UUID
	Identity Sender

	conn      Conn
	send      chan types.Event
	state     atomic.Int32
	done      chan struct{}
	closeOnce sync.Once
}

func NewClient(conn Conn, buffer int, identity Sender) *Client {
	if buffer <= 0 {
		buffer = 1
	}
	if identity == nil {
		identity = Anonymous{}
	}
	return &Client{
		ID:       uuid.New(),
		Identity: identity,
		conn:     conn,
		send:     make(chan types.Event, buffer),
		done:     make(chan struct{}),
	}
}

func (c *Client) State() State {
	return State(c.state.Load())
}

// Done is closed once the client leaves the hub.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

func (c *Client) markClosed() {
	c.state.Store(int32(StateClosed))
	c.closeOnce.Do(func() { close(c.done) })
}

// Prime queues ev ahead of anything the hub will send. It only works before
// Register, while the client is still connecting.
func (c *Client) Prime(ev types.Event) bool {
	if c.State() != StateConnecting {
		return false
	}
	return c.enqueue(ev)
}

// enqueue never blocks; false means the client's queue is full.
func (c *Client) enqueue(ev types.Event) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- ev:
		return true
	default:
		return false
	}
}
