package chat

import (
	"aresclub/aresclub/sources/psql/models"
	"aresclub/aresclub/utils/apperrors"
	"aresclub/aresclub/utils/types"
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// --- fakes ---

type memoryStore struct {
	mu   sync.Mutex
	msgs []models.ChatMessage
	fail error
}

func (s *memoryStore) SaveMessage(ctx context.Context, msg *models.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	msg.ID = len(s.msgs) + 1
	msg.CreatedAt = time.Now().UTC()
	s.msgs = append(s.msgs, *msg)
	return nil
}

func (s *memoryStore) GetRecentMessages(ctx context.Context, limit int) ([]models.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return nil, s.fail
	}
	start := len(s.msgs) - limit
	if start < 0 {
		start = 0
	}
	return append([]models.ChatMessage(nil), s.msgs[start:]...), nil
}

func (s *memoryStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.msgs)
}

type tokenIdentity map[string]*models.User

func (ti tokenIdentity) ResolveCurrentUser(_ context.Context, token string) (*models.User, error) {
	u, ok := ti[token]
	if !ok {
		return nil, apperrors.Authentication("invalid token")
	}
	return u, nil
}

type fakeConn struct {
	events chan types.Event
	block  bool
	closed atomic.Bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{events: make(chan types.Event, 256)}
}

func (f *fakeConn) WriteEvent(ctx context.Context, ev types.Event) error {
	if f.closed.Load() {
		return errors.New("use of closed connection")
	}
	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	f.events <- ev
	return nil
}

func (f *fakeConn) Close(string) error {
	f.closed.Store(true)
	return nil
}

func recv(t *testing.T, c *fakeConn) types.MessagePayload {
	t.Helper()
	select {
	case ev := <-c.events:
		require.Equal(t, types.EventNewMessage, ev.Name)
		return ev.Data.(types.MessagePayload)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for broadcast")
		return types.MessagePayload{}
	}
}

func requireSilent(t *testing.T, c *fakeConn) {
	t.Helper()
	select {
	case ev := <-c.events:
		t.Fatalf("unexpected event %q", ev.Name)
	case <-time.After(50 * time.Millisecond):
	}
}

var (
	adminUser   = &models.User{ID: 1, Username: "admin", IsAdmin: true, IsActive: true}
	regularUser = &models.User{ID: 2, Username: "lucia", IsActive: true}
)

func newTestHub(store *memoryStore) *Hub {
	identity := tokenIdentity{"admin-token": adminUser, "user-token": regularUser}
	return NewHub(store, identity, Options{
		PersistTimeout:  time.Second,
		DeliveryTimeout: 100 * time.Millisecond,
		ClientBuffer:    64,
	})
}

func register(t *testing.T, h *Hub) (*Client, *fakeConn) {
	t.Helper()
	conn := newFakeConn()
	c := h.NewClient(conn, nil)
	_, err := h.Register(c)
	require.NoError(t, err)
	return c, conn
}

// --- tests ---

func TestRegisterLifecycle(t *testing.T) {
	h := newTestHub(&memoryStore{})
	c := h.NewClient(newFakeConn(), nil)
	require.Equal(t, StateConnecting, c.State())

	handle, err := h.Register(c)
	require.NoError(t, err)
	require.Equal(t, c.ID, handle)
	require.Equal(t, StateRegistered, c.State())
	require.Equal(t, 1, h.OnlineCount())

	_, err = h.Register(c)
	require.ErrorIs(t, err, ErrAlreadyRegistered)
	require.Equal(t, 1, h.OnlineCount())

	h.Unregister(handle)
	h.Unregister(handle)
	require.Equal(t, StateClosed, c.State())
	require.Equal(t, 0, h.OnlineCount())

	select {
	case <-c.Done():
	default:
		t.Fatal("done channel not closed")
	}

	_, err = h.Register(c)
	require.ErrorIs(t, err, ErrAlreadyRegistered)
}

func TestPrimedEventIsDeliveredFirst(t *testing.T) {
	h := newTestHub(&memoryStore{})
	ctx := context.Background()

	conn := newFakeConn()
	c := h.NewClient(conn, nil)
	greeting := types.Event{Name: types.EventConnected, Data: types.ConnectedPayload{Message: "hola"}}
	require.True(t, c.Prime(greeting))

	_, err := h.Register(c)
	require.NoError(t, err)
	require.False(t, c.Prime(greeting))

	_, err = h.SubmitVisitorMessage(ctx, "A", "hi")
	require.NoError(t, err)

	select {
	case ev := <-conn.events:
		require.Equal(t, types.EventConnected, ev.Name)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for greeting")
	}
	require.Equal(t, "hi", recv(t, conn).Message)
}

func TestBroadcastReachesOnlyRegisteredConnections(t *testing.T) {
	store := &memoryStore{}
	h := newTestHub(store)
	ctx := context.Background()

	_, early := register(t, h)

	_, err := h.SubmitVisitorMessage(ctx, "A", "hi")
	require.NoError(t, err)

	_, late := register(t, h)

	got := recv(t, early)
	require.Equal(t, "A", got.Username)
	require.Equal(t, "hi", got.Message)
	require.False(t, got.IsAdmin)
	requireSilent(t, early)
	requireSilent(t, late)

	msgs, err := h.FetchRecent(ctx, 50)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.Equal(t, "hi", msgs[0].Message)
}

func TestVisitorAndAdminExchange(t *testing.T) {
	store := &memoryStore{}
	h := newTestHub(store)
	ctx := context.Background()

	_, connA := register(t, h)
	_, connB := register(t, h)

	_, err := h.SubmitVisitorMessage(ctx, "A", "hi")
	require.NoError(t, err)
	for _, c := range []*fakeConn{connA, connB} {
		got := recv(t, c)
		require.Equal(t, types.MessagePayload{ID: got.ID, Username: "A", Message: "hi", IsAdmin: false, CreatedAt: got.CreatedAt}, got)
	}

	_, err = h.SubmitAdminMessage(ctx, "admin-token", "hello")
	require.NoError(t, err)
	for _, c := range []*fakeConn{connA, connB} {
		got := recv(t, c)
		require.Equal(t, "admin", got.Username)
		require.True(t, got.IsAdmin)
	}

	msgs, err := h.FetchRecent(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, []string{"hi", "hello"}, []string{msgs[0].Message, msgs[1].Message})
	require.NotNil(t, msgs[1].UserID)
	require.Equal(t, adminUser.ID, *msgs[1].UserID)
	require.Nil(t, msgs[0].UserID)
}

func TestVisitorValidation(t *testing.T) {
	store := &memoryStore{}
	h := newTestHub(store)
	_, conn := register(t, h)
	ctx := context.Background()

	for _, body := range []string{"", "   ", "\n\t"} {
		_, err := h.SubmitVisitorMessage(ctx, "", body)
		require.ErrorIs(t, err, ErrEmptyMessage)
		require.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	}

	long := make([]rune, MaxDisplayName+1)
	for i := range long {
		long[i] = 'ñ'
	}
	_, err := h.SubmitVisitorMessage(ctx, string(long), "hola")
	require.ErrorIs(t, err, ErrDisplayNameTooLong)

	require.Zero(t, store.count())
	requireSilent(t, conn)

	msg, err := h.SubmitVisitorMessage(ctx, "  ", "hola")
	require.NoError(t, err)
	require.Equal(t, AnonymousName, msg.Username)
	require.Equal(t, AnonymousName, recv(t, conn).Username)
}

func TestAdminSubmitRequiresAdmin(t *testing.T) {
	store := &memoryStore{}
	h := newTestHub(store)
	_, conn := register(t, h)
	ctx := context.Background()

	_, err := h.SubmitAdminMessage(ctx, "user-token", "hello")
	require.ErrorIs(t, err, ErrForbidden)
	require.Equal(t, apperrors.KindAuthorization, apperrors.KindOf(err))

	_, err = h.SubmitAdminMessage(ctx, "bogus", "hello")
	require.Equal(t, apperrors.KindAuthentication, apperrors.KindOf(err))

	_, err = h.SubmitAdminMessage(ctx, "admin-token", "  ")
	require.ErrorIs(t, err, ErrEmptyMessage)

	require.Zero(t, store.count())
	requireSilent(t, conn)
}

func TestStoreFailureIsTransientAndNotBroadcast(t *testing.T) {
	store := &memoryStore{fail: errors.New("connection reset")}
	h := newTestHub(store)
	_, conn := register(t, h)

	_, err := h.SubmitVisitorMessage(context.Background(), "A", "hi")
	require.Equal(t, apperrors.KindTransientStore, apperrors.KindOf(err))
	requireSilent(t, conn)

	_, err = h.FetchRecent(context.Background(), 10)
	require.Equal(t, apperrors.KindTransientStore, apperrors.KindOf(err))
}

func TestMessageDurableWithNoConnections(t *testing.T) {
	store := &memoryStore{}
	h := newTestHub(store)

	_, err := h.SubmitAdminMessage(context.Background(), "admin-token", "anyone?")
	require.NoError(t, err)
	require.Equal(t, 1, store.count())
}

func TestStaleConnectionDoesNotStallOthers(t *testing.T) {
	store := &memoryStore{}
	h := NewHub(store, tokenIdentity{}, Options{
		PersistTimeout:  time.Second,
		DeliveryTimeout: 20 * time.Millisecond,
		ClientBuffer:    2,
	})
	ctx := context.Background()

	stuck := newFakeConn()
	stuck.block = true
	stuckClient := h.NewClient(stuck, nil)
	_, err := h.Register(stuckClient)
	require.NoError(t, err)

	healthy := newFakeConn()
	healthyClient := NewClient(healthy, 64, nil)
	_, err = h.Register(healthyClient)
	require.NoError(t, err)

	const total = 20
	start := time.Now()
	for i := 0; i < total; i++ {
		_, err := h.SubmitVisitorMessage(ctx, "A", fmt.Sprintf("m%d", i))
		require.NoError(t, err)
	}
	require.Less(t, time.Since(start), time.Second)

	for i := 0; i < total; i++ {
		require.Equal(t, fmt.Sprintf("m%d", i), recv(t, healthy).Message)
	}

	require.Eventually(t, func() bool { return stuckClient.State() == StateClosed }, 2*time.Second, 10*time.Millisecond)
	require.True(t, stuck.closed.Load())
	require.Equal(t, StateRegistered, healthyClient.State())
	require.Equal(t, 1, h.OnlineCount())
}

func TestWriteFailureUnregisters(t *testing.T) {
	h := newTestHub(&memoryStore{})
	c, conn := register(t, h)
	conn.closed.Store(true)

	_, err := h.SubmitVisitorMessage(context.Background(), "A", "hi")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return c.State() == StateClosed }, 2*time.Second, 10*time.Millisecond)
	require.Equal(t, 0, h.OnlineCount())
}

func TestTargetedSend(t *testing.T) {
	h := newTestHub(&memoryStore{})
	c, conn := register(t, h)
	_, other := register(t, h)

	require.NoError(t, h.Send(c.ID, types.Event{Name: types.EventConnected, Data: types.ConnectedPayload{Message: "welcome"}}))
	select {
	case ev := <-conn.events:
		require.Equal(t, types.EventConnected, ev.Name)
	case <-time.After(time.Second):
		t.Fatal("no connected event")
	}
	requireSilent(t, other)

	h.Unregister(c.ID)
	require.ErrorIs(t, h.Send(c.ID, types.Event{Name: types.EventConnected}), ErrNotRegistered)
}

func TestFetchRecentMatchesSubmissionOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 20; round++ {
		store := &memoryStore{}
		h := newTestHub(store)
		ctx := context.Background()

		var (
			submitted []string
			live      []*Client
		)
		steps := 5 + rng.Intn(60)
		for i := 0; i < steps; i++ {
			switch rng.Intn(4) {
			case 0:
				c, _ := register(t, h)
				live = append(live, c)
			case 1:
				if len(live) > 0 {
					idx := rng.Intn(len(live))
					h.Unregister(live[idx].ID)
					live = append(live[:idx], live[idx+1:]...)
				}
			case 2:
				body := fmt.Sprintf("v%d-%d", round, i)
				_, err := h.SubmitVisitorMessage(ctx, "visitor", body)
				require.NoError(t, err)
				submitted = append(submitted, body)
			default:
				body := fmt.Sprintf("a%d-%d", round, i)
				_, err := h.SubmitAdminMessage(ctx, "admin-token", body)
				require.NoError(t, err)
				submitted = append(submitted, body)
			}
		}

		n := 1 + rng.Intn(40)
		msgs, err := h.FetchRecent(ctx, n)
		require.NoError(t, err)
		h.Close()

		want := submitted
		if len(want) > n {
			want = want[len(want)-n:]
		}
		got := make([]string, 0, len(msgs))
		for _, m := range msgs {
			got = append(got, m.Message)
		}
		if len(want) == 0 {
			require.Empty(t, got)
			continue
		}
		require.Equal(t, want, got)
	}
}

func TestConcurrentSubmitAndChurn(t *testing.T) {
	store := &memoryStore{}
	h := newTestHub(store)
	ctx := context.Background()

	watcher := newFakeConn()
	_, err := h.Register(NewClient(watcher, 512, nil))
	require.NoError(t, err)

	const writers, perWriter = 8, 25
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				_, err := h.SubmitVisitorMessage(ctx, fmt.Sprintf("w%d", w), "msg")
				require.NoError(t, err)
			}
		}(w)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			c := h.NewClient(newFakeConn(), nil)
			_, err := h.Register(c)
			require.NoError(t, err)
			h.Unregister(c.ID)
		}
	}()
	wg.Wait()

	require.Equal(t, writers*perWriter, store.count())
	for i := 0; i < writers*perWriter; i++ {
		recv(t, watcher)
	}
	requireSilent(t, watcher)
}

func TestCloseShutsEveryConnection(t *testing.T) {
	h := newTestHub(&memoryStore{})
	c1, conn1 := register(t, h)
	c2, conn2 := register(t, h)

	h.Close()
	require.Equal(t, 0, h.OnlineCount())
	require.Equal(t, StateClosed, c1.State())
	require.Equal(t, StateClosed, c2.State())
	require.True(t, conn1.closed.Load())
	require.True(t, conn2.closed.Load())
}
