package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/examiz/internal/ui/theme"
)

const bannerArt = `
███████╗██╗  ██╗ █████╗ ███╗   ███╗██╗███████╗
██╔════╝╚██╗██╔╝██╔══██╗████╗ ████║██║╚══███╔╝
█████╗   ╚███╔╝ ███████║██╔████╔██║██║  ███╔╝
██╔══╝   ██╔██╗ ██╔══██║██║╚██╔╝██║██║ ███╔╝
███████╗██╔╝ ██╗██║  ██║██║ ╚═╝ ██║██║███████╗
╚══════╝╚═╝  ╚═╝╚═╝  ╚═╝╚═╝     ╚═╝╚═╝╚══════╝`

const bannerCompact = "E X A M I Z"

// Tagline is shown under the banner.
const Tagline = "DP-600 practice exams in your terminal"

// RenderBanner returns the EXAMIZ banner styled in the primary color.
// Uses a compact fallback for terminals narrower than 52 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 52 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
