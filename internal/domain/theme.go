package domain

// ThemeMode is the persisted colour scheme preference.
type ThemeMode string

const (
	ThemeLight  ThemeMode = "light"
	ThemeDark   ThemeMode = "dark"
	ThemeSystem ThemeMode = "system"
)

// DefaultTheme is used when nothing valid has been stored.
const DefaultTheme = ThemeSystem

// ParseThemeMode returns the mode named by s, or false if s is not one of
// light, dark or system.
func ParseThemeMode(s string) (ThemeMode, bool) {
	switch ThemeMode(s) {
	case ThemeLight, ThemeDark, ThemeSystem:
		return ThemeMode(s), true
	}
	return "", false
}

// Toggled flips between light and dark; system resolves to light.
func (m ThemeMode) Toggled() ThemeMode {
	if m == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}
