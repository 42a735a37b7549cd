package ui

// ColorPrimary returns the escape code for the active theme's primary color.
func ColorPrimary() string { return GetCurrentTheme().Primary }

// ColorSecondary returns the escape code for the active theme's secondary color.
func ColorSecondary() string { return GetCurrentTheme().Secondary }

// ColorGreen returns the success color.
func ColorGreen() string { return GetCurrentTheme().Success }

// ColorYellow returns the warning color.
func ColorYellow() string { return GetCurrentTheme().Warning }

// ColorRed returns the error color.
func ColorRed() string { return GetCurrentTheme().Error }

// ColorBlue returns the info color.
func ColorBlue() string { return GetCurrentTheme().Info }

// ColorBold returns the bold escape code.
func ColorBold() string { return GetCurrentTheme().Bold }

// ColorReset returns the reset escape code.
func ColorReset() string { return GetCurrentTheme().Reset }

// Paint wraps s in color and a reset. With the no-color theme both are empty
// and s is returned unchanged.
func Paint(color, s string) string {
	if color == "" {
		return s
	}
	return color + s + ColorReset()
}
