package app

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// ScanCleanerTheme provides a custom theme for the application.
type ScanCleanerTheme struct{}

var _ fyne.Theme = (*ScanCleanerTheme)(nil)

func (t *ScanCleanerTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary:
		return color.NRGBA{R: 0x79, G: 0x55, B: 0x48, A: 0xFF} // Sepia for old paper
	case theme.ColorNameSelection:
		return color.NRGBA{R: 0xFF, G: 0xBF, B: 0x00, A: 0x80} // Amber, matches whitelist overlay
	case theme.ColorNameScrollBar:
		return color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xFF} // Visible gray scrollbar
	default:
		return theme.DefaultTheme().Color(name, variant)
	}
}

func (t *ScanCleanerTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *ScanCleanerTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *ScanCleanerTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameScrollBar:
		return 16 // Wider scrollbar for easier grabbing
	default:
		return theme.DefaultTheme().Size(name)
	}
}
