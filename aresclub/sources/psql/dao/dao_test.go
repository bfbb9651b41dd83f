package dao_test

import (
	"aresclub/aresclub/sources/psql/dao"
	"aresclub/aresclub/sources/psql/models"
	"aresclub/aresclub/sources/psql/psqltest"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestUserDAO_EnsureUserIsIdempotent(t *testing.T) {
	ctx := context.Background()
	users := dao.NewUserDAO(psqltest.NewDatabase(t).DB)

	first := &models.User{Username: "admin", Email: "admin@aresclub.com", HashedPassword: "h1", IsAdmin: true, IsActive: true}
	created, err := users.EnsureUser(ctx, first)
	require.NoError(t, err)
	require.True(t, created)
	require.NotZero(t, first.ID)

	second := &models.User{Username: "admin", Email: "other@aresclub.com", HashedPassword: "h2"}
	created, err = users.EnsureUser(ctx, second)
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, "h1", second.HashedPassword)

	exists, err := users.ExistsByUsername(ctx, "admin")
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = users.ExistsByUsername(ctx, "Admin")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestUserDAO_StoresInactiveFlag(t *testing.T) {
	ctx := context.Background()
	users := dao.NewUserDAO(psqltest.NewDatabase(t).DB)

	old := &models.User{Username: "old", Email: "old@aresclub.com", HashedPassword: "h", IsActive: false}
	require.NoError(t, users.CreateUser(ctx, old))

	stored, err := users.GetUserByUsername(ctx, "old")
	require.NoError(t, err)
	require.False(t, stored.IsActive)

	require.NoError(t, users.SetActive(ctx, old.ID, true))
	stored, err = users.GetUserByID(ctx, old.ID)
	require.NoError(t, err)
	require.True(t, stored.IsActive)

	require.NoError(t, users.SetActive(ctx, old.ID, false))
	stored, err = users.GetUserByID(ctx, old.ID)
	require.NoError(t, err)
	require.False(t, stored.IsActive)
}

func TestUserDAO_LookupMissing(t *testing.T) {
	ctx := context.Background()
	users := dao.NewUserDAO(psqltest.NewDatabase(t).DB)

	u, err := users.GetUserByUsername(ctx, "ghost")
	require.NoError(t, err)
	require.Nil(t, u)

	u, err = users.GetUserByID(ctx, 42)
	require.NoError(t, err)
	require.Nil(t, u)
}

func TestChatMessageDAO_RecentIsOldestFirst(t *testing.T) {
	ctx := context.Background()
	chat := dao.NewChatMessageDAO(psqltest.NewDatabase(t).DB)

	for i := 1; i <= 5; i++ {
		msg := &models.ChatMessage{Username: "A", Message: fmt.Sprintf("m%d", i)}
		require.NoError(t, chat.SaveMessage(ctx, msg))
		require.Equal(t, i, msg.ID)
		require.False(t, msg.CreatedAt.IsZero())
		require.Equal(t, time.UTC, msg.CreatedAt.Location())
	}

	msgs, err := chat.GetRecentMessages(ctx, 3)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	require.Equal(t, "m3", msgs[0].Message)
	require.Equal(t, "m4", msgs[1].Message)
	require.Equal(t, "m5", msgs[2].Message)

	msgs, err = chat.GetRecentMessages(ctx, 50)
	require.NoError(t, err)
	require.Len(t, msgs, 5)
	require.Equal(t, "m1", msgs[0].Message)

	n, err := chat.CountMessages(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 5, n)
}

func TestChatMessageDAO_TiesBrokenByID(t *testing.T) {
	ctx := context.Background()
	chat := dao.NewChatMessageDAO(psqltest.NewDatabase(t).DB)

	same := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for _, body := range []string{"first", "second", "third"} {
		require.NoError(t, chat.SaveMessage(ctx, &models.ChatMessage{Username: "A", Message: body, CreatedAt: same}))
	}

	msgs, err := chat.GetRecentMessages(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, []string{"second", "third"}, []string{msgs[0].Message, msgs[1].Message})
}

func TestInteractionDAO_CountsAndTop(t *testing.T) {
	ctx := context.Background()
	interactions := dao.NewInteractionDAO(psqltest.NewDatabase(t).DB)

	record := func(name string, kind models.InteractionKind) {
		require.NoError(t, interactions.RecordGameInteraction(ctx, &models.GameInteraction{
			GameName: name, InteractionType: kind, UserAgent: strPtr("test-agent"), IPAddress: strPtr("10.0.0.1"),
		}))
	}
	record("Wolf Gold", models.InteractionClick)
	record("Wolf Gold", models.InteractionClick)
	record("Wolf Gold", models.InteractionView)
	record("Book of Dead", models.InteractionClick)
	record("Reactoonz", models.InteractionView)
	record("Reactoonz", models.InteractionClick)

	total, err := interactions.CountGameInteractions(ctx, "")
	require.NoError(t, err)
	require.EqualValues(t, 6, total)

	clicks, err := interactions.CountGameInteractions(ctx, models.InteractionClick)
	require.NoError(t, err)
	require.EqualValues(t, 4, clicks)

	top, err := interactions.TopGames(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, []dao.NameCount{{Name: "Wolf Gold", Count: 3}, {Name: "Reactoonz", Count: 2}}, top)

	require.NoError(t, interactions.RecordPromoInteraction(ctx, &models.PromoInteraction{
		PromoName: "Bono de Bienvenida", InteractionType: models.InteractionClick,
	}))
	promos, err := interactions.CountPromoInteractions(ctx, "")
	require.NoError(t, err)
	require.EqualValues(t, 1, promos)
}

func TestContactDAO_DefaultsSource(t *testing.T) {
	ctx := context.Background()
	contacts := dao.NewContactDAO(psqltest.NewDatabase(t).DB)

	c := &models.Contact{Name: strPtr("Lucia"), Message: "quiero mi usuario"}
	require.NoError(t, contacts.CreateContact(ctx, c))
	require.Equal(t, "whatsapp", c.Source)
	require.NotZero(t, c.ID)

	n, err := contacts.CountContacts(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}
