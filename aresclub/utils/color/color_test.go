package color

import (
	"aresclub/aresclub/utils/types"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
)

func TestChatLine(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	at := time.Date(2026, 10, 18, 20, 0, 0, 0, time.UTC)
	line := ChatLine(types.MessagePayload{Username: "A", Message: "hi", CreatedAt: at})
	require.True(t, strings.HasSuffix(line, " A: hi"), line)
	require.NotContains(t, line, "[admin]")

	line = ChatLine(types.MessagePayload{Username: "admin", Message: "hello", IsAdmin: true, CreatedAt: at})
	require.True(t, strings.HasSuffix(line, " [admin] admin: hello"), line)
}
