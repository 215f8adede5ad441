package tui

import (
	"testing"

	"github.com/mark3labs/stepr/internal/stepper"
)

// TestCalculateLayout_Horizontal tests the stacked layout at 80x24
func TestCalculateLayout_Horizontal(t *testing.T) {
	width, height := 80, 24
	layout := CalculateLayout(width, height, stepper.Horizontal, stepper.LTR, 0)

	if layout.Area.Dx() != width || layout.Area.Dy() != height {
		t.Errorf("Area size mismatch: got %dx%d, want %dx%d",
			layout.Area.Dx(), layout.Area.Dy(), width, height)
	}
	if layout.Title.Dy() != TitleHeight {
		t.Errorf("Title height mismatch: got %d, want %d", layout.Title.Dy(), TitleHeight)
	}
	if layout.Headers.Dy() != HeadersHeight || layout.Headers.Dx() != width {
		t.Errorf("Headers should span the width with height %d, got %dx%d",
			HeadersHeight, layout.Headers.Dx(), layout.Headers.Dy())
	}
	if layout.Footer.Dy() != FooterHeight {
		t.Errorf("Footer height mismatch: got %d, want %d", layout.Footer.Dy(), FooterHeight)
	}

	want := height - TitleHeight - HeadersHeight - FooterHeight
	if layout.Content.Dy() != want {
		t.Errorf("Content height mismatch: got %d, want %d", layout.Content.Dy(), want)
	}
}

// TestCalculateLayout_VerticalLTR puts the header column on the left
func TestCalculateLayout_VerticalLTR(t *testing.T) {
	layout := CalculateLayout(120, 40, stepper.Vertical, stepper.LTR, 0)

	if layout.Headers.Min.X != 0 {
		t.Errorf("Headers should start at the left edge, got x=%d", layout.Headers.Min.X)
	}
	if layout.Headers.Dx() != HeadersWidthVertical {
		t.Errorf("Headers width mismatch: got %d, want %d", layout.Headers.Dx(), HeadersWidthVertical)
	}
	if layout.Content.Min.X <= layout.Headers.Max.X-1 {
		t.Errorf("Content should sit right of the headers with a gap")
	}
}

// TestCalculateLayout_VerticalRTL mirrors the header column
func TestCalculateLayout_VerticalRTL(t *testing.T) {
	layout := CalculateLayout(120, 40, stepper.Vertical, stepper.RTL, 0)

	if layout.Headers.Max.X != 120 {
		t.Errorf("Headers should end at the right edge, got x=%d", layout.Headers.Max.X)
	}
	if layout.Content.Max.X >= layout.Headers.Min.X {
		t.Errorf("Content should sit left of the headers with a gap")
	}
}

// TestCalculateLayout_TallFooter grows the footer for expanded help
func TestCalculateLayout_TallFooter(t *testing.T) {
	layout := CalculateLayout(80, 24, stepper.Horizontal, stepper.LTR, 6)
	if layout.Footer.Dy() != 6 {
		t.Errorf("Footer height mismatch: got %d, want 6", layout.Footer.Dy())
	}
}
