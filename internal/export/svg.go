package export

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"
)

// ParticlesToSVG draws particles as dots on a size x size canvas covering
// the gridSize domain, with +y up. A non-empty path (for example the center
// of mass per step) is overlaid as a polyline.
func ParticlesToSVG(positions []r2.Vec, path []r2.Vec, gridSize, size int) string {
	scale := float64(size) / float64(gridSize)
	px := func(v r2.Vec) (float64, float64) {
		return v.X * scale, float64(size) - v.Y*scale
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, size, size, size, size)

	// sticky wall region
	wall := 2 * scale
	fmt.Fprintf(&sb, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="#444466"/>
`, wall, wall, float64(size)-2*wall, float64(size)-2*wall)

	r := scale * 0.25
	sb.WriteString(`<g fill="#00ff00">` + "\n")
	for _, p := range positions {
		x, y := px(p)
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.2f"/>`+"\n", x, y, r)
	}
	sb.WriteString("</g>\n")

	if len(path) > 1 {
		sb.WriteString(`<path fill="none" stroke="#ff00ff" stroke-width="1.5" d="M`)
		for i, p := range path {
			x, y := px(p)
			if i == 0 {
				fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		sb.WriteString(`"/>` + "\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}
