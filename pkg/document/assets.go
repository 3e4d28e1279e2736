package document

import (
	_ "embed"
)

//go:embed assets/bylight.css
var stylesheet string

//go:embed assets/bylight.js
var hoverScript string

// Stylesheet returns the CSS for highlighted code and links.
func Stylesheet() string { return stylesheet }

// HoverScript returns the script cross-highlighting elements that share a
// match ID while one of them is hovered.
func HoverScript() string { return hoverScript }
