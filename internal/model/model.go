package model

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Strategy selects the allocator used to pack a canvas.
type Strategy string

const (
	StrategyShelf      Strategy = "shelf"      // Row-based shelf packing
	StrategyGuillotine Strategy = "guillotine" // Free-rectangle binary split packing
)

// Strategies lists the supported strategies in display order.
var Strategies = []Strategy{StrategyShelf, StrategyGuillotine}

// ParseStrategy resolves a strategy name. The historical names "etagere" and
// "guillotiere" are accepted as aliases.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "shelf", "etagere":
		return StrategyShelf, nil
	case "guillotine", "guillotiere":
		return StrategyGuillotine, nil
	}
	return "", fmt.Errorf("unknown strategy %q (want shelf or guillotine)", s)
}

func (s Strategy) String() string { return string(s) }

// Order selects a caller-side pre-sort applied before packing.
type Order string

const (
	OrderNone      Order = "none"      // Keep input order
	OrderArea      Order = "area"      // Largest area first
	OrderHeight    Order = "height"    // Tallest first
	OrderWidth     Order = "width"     // Widest first
	OrderPerimeter Order = "perimeter" // Largest perimeter first
	OrderMaxSide   Order = "maxside"   // Longest side first
	OrderGenetic   Order = "genetic"   // Searched order maximizing placed area
)

// Orders lists the supported orders in display order.
var Orders = []Order{OrderNone, OrderArea, OrderHeight, OrderWidth, OrderPerimeter, OrderMaxSide, OrderGenetic}

// ParseOrder resolves an order name. An empty string means OrderNone.
func ParseOrder(s string) (Order, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return OrderNone, nil
	}
	for _, o := range Orders {
		if string(o) == s {
			return o, nil
		}
	}
	return "", fmt.Errorf("unknown order %q", s)
}

// Request is one rectangle to place, identified by a caller-chosen ID
// (usually the source image path).
type Request struct {
	ID     string `json:"id"`
	Extent Extent `json:"extent"`
}

func NewRequest(id string, w, h int) Request {
	return Request{ID: id, Extent: Extent{W: w, H: h}}
}

// NewAnonymousRequest creates a request with a generated short ID.
func NewAnonymousRequest(w, h int) Request {
	return NewRequest(uuid.New().String()[:8], w, h)
}

// Placement records where a request was placed.
type Placement struct {
	ID        string `json:"id"`
	Rect      Rect   `json:"rect"`
	Requested Extent `json:"requested"`
}

// Fragment describes where the original content of a packed image appears
// within the atlas.
type Fragment struct {
	Center Vector2 `json:"center"`
	Size   Vector2 `json:"size"`
}

// Fragment returns the metadata for this placement. Size is always the
// requested extent. The center is shifted back by half of any excess the
// allocator added so it lines up with the requested content anchored at the
// rect's top-left corner.
func (p Placement) Fragment() Fragment {
	c := p.Rect.Center()
	c.X -= float64(p.Rect.W-p.Requested.W) / 2
	c.Y -= float64(p.Rect.H-p.Requested.H) / 2
	return Fragment{
		Center: c,
		Size:   Vector2{X: float64(p.Requested.W), Y: float64(p.Requested.H)},
	}
}

// NamedFragment pairs a fragment with its identifier.
type NamedFragment struct {
	ID       string
	Fragment Fragment
}

// PackSettings configures a single packing run.
type PackSettings struct {
	Width    int      `json:"width" toml:"width"`
	Height   int      `json:"height" toml:"height"`
	Strategy Strategy `json:"strategy" toml:"strategy"`
	Order    Order    `json:"order" toml:"order"`
	Seed     int64    `json:"seed" toml:"seed"` // Seed for the genetic order search
}

// Canvas returns the configured canvas extent.
func (s PackSettings) Canvas() Extent {
	return Extent{W: s.Width, H: s.Height}
}

func DefaultSettings() PackSettings {
	return PackSettings{
		Width:    1024,
		Height:   1024,
		Strategy: StrategyShelf,
		Order:    OrderNone,
		Seed:     42,
	}
}

// PackResult is the outcome of a successful packing run.
type PackResult struct {
	LayoutID   string      `json:"layout_id"`
	Canvas     Extent      `json:"canvas"`
	Strategy   Strategy    `json:"strategy"`
	Placements []Placement `json:"placements"`
}

// Fragments returns the fragment metadata of every placement, in placement order.
func (r PackResult) Fragments() []NamedFragment {
	out := make([]NamedFragment, len(r.Placements))
	for i, p := range r.Placements {
		out[i] = NamedFragment{ID: p.ID, Fragment: p.Fragment()}
	}
	return out
}

// UsedArea returns the total area covered by placements.
func (r PackResult) UsedArea() int {
	var total int
	for _, p := range r.Placements {
		total += p.Rect.Area()
	}
	return total
}

// TotalArea returns the canvas area.
func (r PackResult) TotalArea() int {
	return r.Canvas.Area()
}

// Efficiency returns the usage percentage.
func (r PackResult) Efficiency() float64 {
	ta := r.TotalArea()
	if ta == 0 {
		return 0
	}
	return float64(r.UsedArea()) / float64(ta) * 100.0
}

// FitReport is the outcome of a best-effort run that keeps going after a
// request cannot be placed.
type FitReport struct {
	Canvas   Extent      `json:"canvas"`
	Strategy Strategy    `json:"strategy"`
	Placed   []Placement `json:"placed"`
	Unplaced []Request   `json:"unplaced"`
}

// PlacedArea returns the total area of placed rectangles.
func (f FitReport) PlacedArea() int {
	var total int
	for _, p := range f.Placed {
		total += p.Rect.Area()
	}
	return total
}

// Efficiency returns the usage percentage.
func (f FitReport) Efficiency() float64 {
	ta := f.Canvas.Area()
	if ta == 0 {
		return 0
	}
	return float64(f.PlacedArea()) / float64(ta) * 100.0
}

// Project ties a request list and its settings together for save/load.
type Project struct {
	Name     string       `json:"name"`
	Requests []Request    `json:"requests"`
	Settings PackSettings `json:"settings"`
	Result   *PackResult  `json:"result,omitempty"`
}

func NewProject() Project {
	return Project{
		Name:     "Untitled",
		Requests: []Request{},
		Settings: DefaultSettings(),
	}
}
