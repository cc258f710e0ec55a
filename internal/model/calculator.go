package model

import "math"

// CanvasEstimate holds a lower-bound sizing calculation for a request list.
type CanvasEstimate struct {
	TotalArea   int     `json:"total_area"`   // Sum of requested areas (px²)
	MaxWidth    int     `json:"max_width"`    // Widest request
	MaxHeight   int     `json:"max_height"`   // Tallest request
	CanvasArea  int     `json:"canvas_area"`  // Area of the target canvas
	MinSide     int     `json:"min_side"`     // Smallest square side that could hold the area
	PowerOfTwo  int     `json:"power_of_two"` // MinSide rounded up to a power of two, at least the largest side
	FillPercent float64 `json:"fill_percent"` // TotalArea as a percentage of CanvasArea
	Fits        bool    `json:"fits"`         // Whether the lower bound allows a packing at all
}

// EstimateCanvas computes the area lower bound for packing requests onto a
// canvas. Fits being true does not guarantee a packing exists; Fits being
// false guarantees that none does.
func EstimateCanvas(requests []Request, canvas Extent) CanvasEstimate {
	var est CanvasEstimate
	for _, r := range requests {
		est.TotalArea += r.Extent.Area()
		est.MaxWidth = max(est.MaxWidth, r.Extent.W)
		est.MaxHeight = max(est.MaxHeight, r.Extent.H)
	}

	est.MinSide = int(math.Ceil(math.Sqrt(float64(est.TotalArea))))
	est.MinSide = max(est.MinSide, est.MaxWidth, est.MaxHeight)
	est.PowerOfTwo = nextPowerOfTwo(est.MinSide)

	est.CanvasArea = canvas.Area()
	if est.CanvasArea > 0 {
		est.FillPercent = float64(est.TotalArea) / float64(est.CanvasArea) * 100.0
	}
	est.Fits = est.TotalArea <= est.CanvasArea &&
		est.MaxWidth <= canvas.W && est.MaxHeight <= canvas.H
	return est
}

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
