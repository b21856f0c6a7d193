package chart

import (
	"bytes"
	"fmt"
)

// RenderSVG writes geom as a standalone SVG document sized to d.
// The element classes match the dashboard stylesheet: area, line and dot.
func RenderSVG(geom Geometry, d Dims) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf(
		"<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"0 0 %s %s\" width=\"%s\" height=\"%s\">\n",
		fmt2(d.Width), fmt2(d.Height), fmt2(d.Width), fmt2(d.Height)))

	if len(geom.Points) > 0 {
		buf.WriteString(fmt.Sprintf("<path class=\"area\" d=\"%s\"/>\n", geom.AreaPath))
		buf.WriteString(fmt.Sprintf("<path class=\"line\" d=\"%s\" fill=\"none\"/>\n", geom.LinePath))

		buf.WriteString("<g class=\"dots\">\n")
		for _, p := range geom.Points {
			buf.WriteString(fmt.Sprintf("<circle class=\"dot\" cx=\"%s\" cy=\"%s\" r=\"3.5\"/>\n", fmt2(p.X), fmt2(p.Y)))
		}
		buf.WriteString("</g>\n")
	}

	buf.WriteString("</svg>")

	return buf.Bytes()
}
