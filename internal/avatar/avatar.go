// Package avatar draws the learner's profile picture as an SVG document.
package avatar

import (
	"fmt"
	"html"
	"unicode/utf8"
)

// Palette is indexed by name length.
var Palette = []string{"#FF6B6B", "#4ECDC4", "#45B7D1", "#F9A826", "#6C5CE7"}

// Color returns the palette colour for name.
func Color(name string) string {
	return Palette[utf8.RuneCountInString(name)%len(Palette)]
}

const svgTemplate = `<svg width="200" height="200" viewBox="0 0 200 200" xmlns="http://www.w3.org/2000/svg">
  <circle cx="100" cy="100" r="100" fill="%s"/>
  <circle cx="100" cy="80" r="40" fill="#FFFFFF"/>
  <circle cx="80" cy="70" r="8" fill="#333333"/>
  <circle cx="120" cy="70" r="8" fill="#333333"/>
  <path d="M70 110 Q100 130 130 110" stroke="#333333" stroke-width="4" fill="none"/>
  <text x="100" y="180" text-anchor="middle" fill="#FFFFFF" font-size="16">%s</text>
  <desc>grade %d</desc>
</svg>`

// Generate returns the avatar SVG for a learner.
func Generate(name string, grade int) string {
	return fmt.Sprintf(svgTemplate, Color(name), html.EscapeString(name), grade)
}
