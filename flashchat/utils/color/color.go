// flashchat/utils/color/color.go
package color

import (
	"github.com/fatih/color"
)

var (
	promptColor  = color.New(color.FgCyan, color.Bold)
	infoColor    = color.New(color.FgGreen)
	mutedColor   = color.New(color.FgHiBlack)
	errorColor   = color.New(color.FgRed, color.Bold)
	accentColor  = color.New(color.FgHiGreen, color.Bold)
	pendingColor = color.New(color.FgYellow)
)

func ColorPrompt(s string) string {
	return promptColor.Sprint(s)
}

func ColorInfo(s string) string {
	return infoColor.Sprint(s)
}

func ColorMuted(s string) string {
	return mutedColor.Sprint(s)
}

func ColorError(s string) string {
	return errorColor.Sprint(s)
}

func ColorAccent(s string) string {
	return accentColor.Sprint(s)
}

func ColorPending(s string) string {
	return pendingColor.Sprint(s)
}
