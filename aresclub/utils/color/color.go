// Package color renders chat lines for terminal output.
package color

import (
	"aresclub/aresclub/utils/types"
	"fmt"

	"github.com/fatih/color"
)

var (
	timeColor    = color.New(color.FgHiBlack)
	visitorColor = color.New(color.FgCyan, color.Bold)
	adminColor   = color.New(color.FgHiYellow, color.Bold)
	infoColor    = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed, color.Bold)
)

func ColorInfo(s string) string {
	return infoColor.Sprint(s)
}

func ColorError(s string) string {
	return errorColor.Sprint(s)
}

// ChatLine formats one broadcast message. Admin lines carry a marker so they
// stay distinguishable without colour.
func ChatLine(m types.MessagePayload) string {
	name := visitorColor.Sprint(m.Username)
	if m.IsAdmin {
		name = adminColor.Sprint("[admin] " + m.Username)
	}
	return fmt.Sprintf("%s %s: %s", timeColor.Sprint(m.CreatedAt.Local().Format("15:04:05")), name, m.Message)
}
