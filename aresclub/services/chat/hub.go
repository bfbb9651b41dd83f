// Package chat relays the shared live chat room between visitors and the admin.
//
// Every submitted message is persisted first and only then fanned out to the
// connections registered at that moment. Delivery is best effort: each client
// has its own bounded queue drained by its own writer goroutine, so a slow or
// dead connection never holds up the others. There is no replay; history is
// pulled through FetchRecent.
package chat

import (
	"aresclub/aresclub/sources/psql/models"
	"aresclub/aresclub/utils/apperrors"
	"aresclub/aresclub/utils/logging"
	"aresclub/aresclub/utils/types"
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultRecentLimit = 50
	MaxDisplayName     = 50

	defaultPersistTimeout  = 5 * time.Second
	defaultDeliveryTimeout = 5 * time.Second
	defaultClientBuffer    = 32
)

var (
	ErrEmptyMessage       = apperrors.Validation("message is required")
	ErrDisplayNameTooLong = apperrors.Validation("username must be at most 50 characters")
	ErrForbidden          = apperrors.Authorization("only admins can send messages")
	ErrAlreadyRegistered  = apperrors.Validation("connection already registered")
	ErrNotRegistered      = apperrors.NotFound("connection not registered")
)

// MessageStore persists chat messages.
type MessageStore interface {
	SaveMessage(ctx context.Context, msg *models.ChatMessage) error
	GetRecentMessages(ctx context.Context, limit int) ([]models.ChatMessage, error)
}

// Identity resolves a bearer token to the account it was issued for.
type Identity interface {
	ResolveCurrentUser(ctx context.Context, token string) (*models.User, error)
}

type Options struct {
	PersistTimeout  time.Duration
	DeliveryTimeout time.Duration
	ClientBuffer    int
}

type Hub struct {
	store    MessageStore
	identity Identity
	opts     Options

	mu      sync.RWMutex
	clients map[uuid.UUID]*Client
}

func NewHub(store MessageStore, identity Identity, opts Options) *Hub {
	if opts.PersistTimeout <= 0 {
		opts.PersistTimeout = defaultPersistTimeout
	}
	if opts.DeliveryTimeout <= 0 {
		opts.DeliveryTimeout = defaultDeliveryTimeout
	}
	if opts.ClientBuffer <= 0 {
		opts.ClientBuffer = defaultClientBuffer
	}
	return &Hub{
		store:    store,
		identity: identity,
		opts:     opts,
		clients:  make(map[uuid.UUID]*Client),
	}
}

// NewClient builds a client sized with the hub's queue length.
func (h *Hub) NewClient(conn Conn, identity Sender) *Client {
	return NewClient(conn, h.opts.ClientBuffer, identity)
}

// Register adds c to the active set and starts its writer. The returned handle
// is c.ID. A client can be registered once; a second call is rejected.
func (h *Hub) Register(c *Client) (uuid.UUID, error) {
	h.mu.Lock()
	if _, exists := h.clients[c.ID]; exists {
		h.mu.Unlock()
		return uuid.Nil, ErrAlreadyRegistered
	}
	if !c.state.CompareAndSwap(int32(StateConnecting), int32(StateRegistered)) {
		h.mu.Unlock()
		return uuid.Nil, ErrAlreadyRegistered
	}
	h.clients[c.ID] = c
	online := len(h.clients)
	h.mu.Unlock()

	go h.writePump(c)

	logging.ChatLogger.Info("connection registered",
		zap.String("handle", c.ID.String()),
		zap.Bool("admin", c.Identity.IsAdmin()),
		zap.Int("online", online))
	return c.ID, nil
}

// Unregister removes the handle from the active set. Unknown handles are ignored.
func (h *Hub) Unregister(handle uuid.UUID) {
	h.mu.Lock()
	c, ok := h.clients[handle]
	if ok {
		delete(h.clients, handle)
	}
	online := len(h.clients)
	h.mu.Unlock()

	if !ok {
		return
	}
	c.markClosed()
	logging.ChatLogger.Info("connection unregistered",
		zap.String("handle", handle.String()),
		zap.Int("online", online))
}

// Send queues ev for a single registered connection.
func (h *Hub) Send(handle uuid.UUID, ev types.Event) error {
	h.mu.RLock()
	c, ok := h.clients[handle]
	h.mu.RUnlock()
	if !ok {
		return ErrNotRegistered
	}
	if !c.enqueue(ev) {
		h.evict(c, "send queue full")
		return apperrors.New(apperrors.KindDeliveryFailure, "send queue full")
	}
	return nil
}

func (h *Hub) OnlineCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// SubmitVisitorMessage stores and broadcasts a message from an anonymous visitor.
func (h *Hub) SubmitVisitorMessage(ctx context.Context, displayName, body string) (*models.ChatMessage, error) {
	if strings.TrimSpace(body) == "" {
		return nil, ErrEmptyMessage
	}
	displayName = strings.TrimSpace(displayName)
	if utf8.RuneCountInString(displayName) > MaxDisplayName {
		return nil, ErrDisplayNameTooLong
	}
	return h.submit(ctx, Anonymous{Name: displayName}, body)
}

// SubmitAdminMessage resolves token, requires the admin flag, then stores and
// broadcasts exactly like the visitor path.
func (h *Hub) SubmitAdminMessage(ctx context.Context, token, body string) (*models.ChatMessage, error) {
	user, err := h.identity.ResolveCurrentUser(ctx, token)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin {
		return nil, ErrForbidden
	}
	if strings.TrimSpace(body) == "" {
		return nil, ErrEmptyMessage
	}
	return h.submit(ctx, Admin{User: user}, body)
}

// FetchRecent returns the newest limit messages, oldest first.
func (h *Hub) FetchRecent(ctx context.Context, limit int) ([]models.ChatMessage, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	ctx, cancel := context.WithTimeout(ctx, h.opts.PersistTimeout)
	defer cancel()
	defer logging.LogDuration(ctx, "chat.FetchRecent")()

	msgs, err := h.store.GetRecentMessages(ctx, limit)
	if err != nil {
		logging.ErrorLogger.Error("fetch recent chat messages failed", zap.Error(err))
		return nil, apperrors.Store("could not load chat messages", err)
	}
	return msgs, nil
}

// Close unregisters every connection and closes its transport.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for id, c := range h.clients {
		clients = append(clients, c)
		delete(h.clients, id)
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.markClosed()
		_ = c.conn.Close("server shutting down")
	}
}

// submit holds no hub lock while the write is in flight; the active set is
// only read once the message is durable.
func (h *Hub) submit(ctx context.Context, sender Sender, body string) (*models.ChatMessage, error) {
	msg := &models.ChatMessage{
		UserID:   sender.UserID(),
		Username: sender.DisplayName(),
		Message:  body,
		IsAdmin:  sender.IsAdmin(),
	}

	pctx, cancel := context.WithTimeout(ctx, h.opts.PersistTimeout)
	err := h.persist(pctx, msg)
	cancel()
	if err != nil {
		logging.ErrorLogger.Error("save chat message failed",
			zap.String("username", msg.Username), zap.Bool("admin", msg.IsAdmin), zap.Error(err))
		return nil, apperrors.Store("could not save chat message", err)
	}

	h.broadcast(types.Event{Name: types.EventNewMessage, Data: ToPayload(*msg)})
	return msg, nil
}

func (h *Hub) persist(ctx context.Context, msg *models.ChatMessage) error {
	defer logging.LogDuration(ctx, "chat.SaveMessage")()
	return h.store.SaveMessage(ctx, msg)
}

// broadcast queues ev on every registered client. Clients whose queue is full
// are evicted after the read lock is released.
func (h *Hub) broadcast(ev types.Event) {
	var stale []*Client

	h.mu.RLock()
	delivered := 0
	for _, c := range h.clients {
		if c.enqueue(ev) {
			delivered++
			continue
		}
		stale = append(stale, c)
	}
	h.mu.RUnlock()

	for _, c := range stale {
		h.evict(c, "send queue full")
	}
	logging.ChatLogger.Debug("message fanned out",
		zap.Int("delivered", delivered), zap.Int("dropped", len(stale)))
}

// evict drops a client that can no longer keep up and closes its transport so
// the reader side notices.
func (h *Hub) evict(c *Client, reason string) {
	logging.ErrorLogger.Error("chat delivery failed",
		zap.String("kind", string(apperrors.KindDeliveryFailure)),
		zap.String("handle", c.ID.String()),
		zap.String("reason", reason))
	h.Unregister(c.ID)
	_ = c.conn.Close(reason)
}

// writePump drains one client's queue until the client is closed.
func (h *Hub) writePump(c *Client) {
	for {
		select {
		case <-c.done:
			return
		case ev := <-c.send:
			ctx, cancel := context.WithTimeout(context.Background(), h.opts.DeliveryTimeout)
			err := c.conn.WriteEvent(ctx, ev)
			cancel()
			if err != nil {
				select {
				case <-c.done:
					// closed underneath us; nothing to report
					return
				default:
				}
				logging.ChatLogger.Debug("write failed", zap.String("handle", c.ID.String()), zap.Error(err))
				h.evict(c, "write failed")
				return
			}
		}
	}
}

// ToPayload is the public shape of a stored message.
func ToPayload(m models.ChatMessage) types.MessagePayload {
	return types.MessagePayload{
		ID:        m.ID,
		Username:  m.Username,
		Message:   m.Message,
		IsAdmin:   m.IsAdmin,
		CreatedAt: m.CreatedAt,
	}
}

func ToPayloads(msgs []models.ChatMessage) []types.MessagePayload {
	out := make([]types.MessagePayload, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, ToPayload(m))
	}
	return out
}
