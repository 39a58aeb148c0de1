package cmd

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

const logoRaw = `

     ██╗██████╗  ██████╗ ██╗
     ██║╚════██╗██╔════╝ ██║
     ██║ █████╔╝██║  ███╗██║
██   ██║██╔═══╝ ██║   ██║██║
╚█████╔╝███████╗╚██████╔╝███████╗
 ╚════╝ ╚══════╝ ╚═════╝ ╚══════╝
`

var (
	gradientStart = "#d33833" // jenkins red
	gradientEnd   = "#fc6d26" // gitlab orange
)

// renderLogo colors the logo with a horizontal gradient. It runs after
// --no-color has been applied.
func renderLogo() string {
	lines := strings.Split(strings.TrimPrefix(logoRaw, "\n"), "\n")

	maxWidth := 0
	for _, line := range lines {
		if w := len([]rune(line)); w > maxWidth {
			maxWidth = w
		}
	}
	if maxWidth == 0 {
		return ""
	}

	startColor, _ := colorful.Hex(gradientStart)
	endColor, _ := colorful.Hex(gradientEnd)

	var result strings.Builder
	for _, line := range lines {
		for i, char := range []rune(line) {
			if char == ' ' {
				result.WriteRune(char)
				continue
			}
			t := float64(i) / float64(maxWidth)
			c := startColor.BlendLuv(endColor, t)
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex()))
			result.WriteString(style.Render(string(char)))
		}
		result.WriteString("\n")
	}

	return result.String()
}
