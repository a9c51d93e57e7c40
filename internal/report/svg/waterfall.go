package svg

import (
	"fmt"
	"html/template"
	"math"
	"strings"

	"github.com/cantera-ops/cantera/internal/report"
)

// Waterfall renders a variance decomposition as a floating bar chart. The
// first and last steps are drawn as absolute bars from zero; relative steps
// float between the running totals on either side of them.
func Waterfall(width, height int, steps []report.Step, opts WaterfallOpts) (template.HTML, error) {
	if len(steps) < 2 {
		return "", fmt.Errorf("svg: at least two steps required")
	}
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	padding := opts.Padding
	if padding <= 0 {
		padding = DefaultPadding
	}
	tickCount := opts.TickCount
	if tickCount <= 0 {
		tickCount = DefaultTicks
	}

	axisColor := fallback(opts.AxisColor, "#475569")
	gridColor := fallback(opts.GridColor, "#cbd5f5")
	totalColor := fallback(opts.TotalColor, "#0ea5e9")
	increaseColor := fallback(opts.IncreaseColor, "#f97316")
	decreaseColor := fallback(opts.DecreaseColor, "#22c55e")

	chartWidth := float64(width) - 2*padding
	chartHeight := float64(height) - 2*padding
	if chartWidth <= 0 || chartHeight <= 0 {
		return "", fmt.Errorf("svg: viewport too small")
	}

	// Running totals give each bar its top and bottom edge.
	levels := make([]float64, len(steps)+1)
	minVal, maxVal := 0.0, 0.0
	running := 0.0
	for i, s := range steps {
		switch s.Kind {
		case report.StepRelative:
			levels[i] = running
			running += s.Value
		default:
			levels[i] = 0
			running = s.Value
		}
		levels[i+1] = running
		if running < minVal {
			minVal = running
		}
		if running > maxVal {
			maxVal = running
		}
	}
	if almostEqual(maxVal, minVal) {
		maxVal = minVal + 1
	}
	scale := chartHeight / (maxVal - minVal)
	toY := func(v float64) float64 {
		return padding + chartHeight - (v-minVal)*scale
	}
	zeroY := toY(0)

	titleID := makeID(opts.Title, "waterfall-title")
	descID := makeID(opts.Title, "waterfall-desc")

	var b strings.Builder
	b.WriteString(fmt.Sprintf("<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"0 0 %d %d\" role=\"img\" aria-labelledby=\"%s %s\">", width, height, titleID, descID))
	b.WriteString(fmt.Sprintf("<title id=\"%s\">%s</title>", titleID, template.HTMLEscapeString(fallback(opts.Title, "Waterfall chart"))))
	b.WriteString(fmt.Sprintf("<desc id=\"%s\">%s</desc>", descID, template.HTMLEscapeString(fallback(opts.Description, "Cost variance decomposition"))))

	for i := 0; i <= tickCount; i++ {
		ratio := float64(i) / float64(tickCount)
		value := minVal + (maxVal-minVal)*ratio
		y := padding + chartHeight - ratio*chartHeight
		b.WriteString(fmt.Sprintf("<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke=\"%s\" stroke-width=\"0.5\" stroke-dasharray=\"2,4\" aria-hidden=\"true\"></line>", padding, y, padding+chartWidth, y, gridColor))
		b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"end\">%s</text>", padding-6, y+4, axisColor, template.HTMLEscapeString(formatTick(value))))
	}

	b.WriteString(fmt.Sprintf("<g stroke=\"%s\" aria-label=\"Axes\">", axisColor))
	b.WriteString(fmt.Sprintf("<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke-width=\"1\"></line>", padding, padding, padding, padding+chartHeight))
	b.WriteString(fmt.Sprintf("<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke-width=\"1\"></line>", padding, zeroY, padding+chartWidth, zeroY))
	b.WriteString("</g>")

	groupWidth := chartWidth / float64(len(steps))
	barWidth := groupWidth * 0.6

	for i, s := range steps {
		from := levels[i]
		to := levels[i+1]
		color := totalColor
		if s.Kind == report.StepRelative {
			if s.Value >= 0 {
				color = increaseColor
			} else {
				color = decreaseColor
			}
		}

		top := math.Max(from, to)
		bottom := math.Min(from, to)
		y := toY(top)
		h := (top - bottom) * scale
		if h < 1 {
			h = 1
		}
		x := padding + float64(i)*groupWidth + (groupWidth-barWidth)/2
		b.WriteString(fmt.Sprintf("<rect x=\"%.2f\" y=\"%.2f\" width=\"%.2f\" height=\"%.2f\" fill=\"%s\" aria-label=\"%s\"></rect>", x, y, barWidth, h, color, template.HTMLEscapeString(s.Label)))

		// Connector to the next bar's starting level.
		if i < len(steps)-1 {
			cy := toY(to)
			b.WriteString(fmt.Sprintf("<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke=\"%s\" stroke-width=\"0.5\" stroke-dasharray=\"3,3\" aria-hidden=\"true\"></line>", x+barWidth, cy, padding+float64(i+1)*groupWidth+(groupWidth-barWidth)/2, cy, axisColor))
		}

		display := s.DisplayText
		if display == "" {
			display = formatTick(s.Value)
		}
		b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"middle\">%s</text>", x+barWidth/2, y-4, axisColor, template.HTMLEscapeString(display)))

		center := padding + float64(i)*groupWidth + groupWidth/2
		b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"middle\">%s</text>", center, padding+chartHeight+14, axisColor, template.HTMLEscapeString(s.Label)))
	}

	b.WriteString("</svg>")
	return template.HTML(b.String()), nil
}

func fallback(value, defaultValue string) string {
	if strings.TrimSpace(value) == "" {
		return defaultValue
	}
	return value
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func makeID(base, suffix string) string {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		if r == '-' || r == '_' {
			return r
		}
		return '-'
	}, strings.ToLower(strings.TrimSpace(base)))
	cleaned = strings.Trim(cleaned, "-")
	if cleaned == "" {
		cleaned = "chart"
	}
	return fmt.Sprintf("%s-%s", cleaned, suffix)
}

func formatTick(v float64) string {
	abs := math.Abs(v)
	switch {
	case abs >= 1_000_000_000:
		return fmt.Sprintf("%.1fB", v/1_000_000_000)
	case abs >= 1_000_000:
		return fmt.Sprintf("%.1fM", v/1_000_000)
	case abs >= 1_000:
		return fmt.Sprintf("%.1fk", v/1_000)
	default:
		if almostEqual(v, math.Round(v)) {
			return fmt.Sprintf("%.0f", v)
		}
		return fmt.Sprintf("%.2f", v)
	}
}
