package tui

import (
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/mark3labs/stepr/internal/stepper"
)

// Layout dimensions
const (
	// TitleHeight is the height of the wizard title row
	TitleHeight = 1
	// HeadersHeight is the height of the horizontal header panel (title + row)
	HeadersHeight = 2
	// FooterHeight is the default height of the notice and hint rows
	FooterHeight = 2
	// HeadersWidthVertical caps the width of the vertical header column
	HeadersWidthVertical = 32
	// MinContentWidth keeps the content panel usable beside vertical headers
	MinContentWidth = 30
)

// Layout defines the rectangular regions for all UI components
type Layout struct {
	Area    uv.Rectangle
	Title   uv.Rectangle
	Headers uv.Rectangle
	Content uv.Rectangle
	Footer  uv.Rectangle
}

// CalculateLayout computes the layout rectangles for the given terminal size.
// Horizontal headers sit in a row above the content. Vertical headers take a
// column on the leading side, which is the right edge for RTL. A footer
// height below FooterHeight is raised to it.
func CalculateLayout(width, height int, o stepper.Orientation, dir stepper.Direction, footerHeight int) Layout {
	area := uv.Rectangle{Max: uv.Position{X: width, Y: height}}
	footerHeight = max(footerHeight, FooterHeight)

	title, rest := uv.SplitVertical(area, uv.Fixed(TitleHeight))
	body, footer := uv.SplitVertical(rest, uv.Fixed(max(rest.Dy()-footerHeight, 0)))

	var headers, content uv.Rectangle
	if o == stepper.Vertical {
		w := min(HeadersWidthVertical, max(body.Dx()-MinContentWidth, body.Dx()/3))
		if dir == stepper.RTL {
			content, headers = uv.SplitHorizontal(body, uv.Fixed(body.Dx()-w))
			content.Max.X -= 1
		} else {
			headers, content = uv.SplitHorizontal(body, uv.Fixed(w))
			content.Min.X += 1
		}
	} else {
		headers, content = uv.SplitVertical(body, uv.Fixed(HeadersHeight))
	}

	return Layout{
		Area:    area,
		Title:   title,
		Headers: headers,
		Content: content,
		Footer:  footer,
	}
}
