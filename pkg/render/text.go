package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
)

// renderAnnotation draws the title and caption lines below the photo,
// using the metrics the annotation height was measured with.
func renderAnnotation(buf *bytes.Buffer, p Pin, color string) {
	m := p.Metrics
	y := p.Y + p.PhotoH + m.Padding
	x := p.X + m.Padding
	if p.Title != "" {
		fmt.Fprintf(buf, `    <text class="title" x="%.2f" y="%.2f" font-family="sans-serif" font-size="%.0f" font-weight="bold" fill="%s">%s</text>`+"\n",
			x, y+m.HeaderHeight*0.8, m.FontSize, color, EscapeXML(p.Title))
		y += m.HeaderHeight
	}
	lineHeight := m.FontSize * 1.25
	if m.LineHeight > 0 {
		lineHeight = m.LineHeight
	}
	for _, line := range p.Lines {
		y += lineHeight
		if line == "" {
			continue
		}
		fmt.Fprintf(buf, `    <text class="caption" x="%.2f" y="%.2f" font-family="monospace" font-size="%.0f" fill="%s">%s</text>`+"\n",
			x, y-lineHeight*0.25, m.FontSize, color, EscapeXML(line))
	}
}

func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func WrapURL(buf *bytes.Buffer, url string, fn func()) {
	if url != "" {
		fmt.Fprintf(buf, `    <a href="%s" target="_blank">`+"\n", EscapeXML(url))
	}
	fn()
	if url != "" {
		buf.WriteString("    </a>\n")
	}
}
