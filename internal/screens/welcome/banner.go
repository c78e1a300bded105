package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pathwise/internal/ui/theme"
)

const bannerArt = `
 ┏━┓┏━┓╺┳╸╻ ╻╻ ╻╻┏━┓┏━╸
 ┣━┛┣━┫ ┃ ┣━┫┃╻┃┃┗━┓┣╸
 ╹  ╹ ╹ ╹ ╹ ╹┗┻┛╹┗━┛┗━╸`

const bannerCompact = "P A T H W I S E"

// RenderBanner returns the product banner, compact below 32 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 32 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
