// Package billing computes shipment weights and display pricing.
package billing

import (
	"math"
	"strconv"
)

// Standard volumetric divisor for domestic surface/air shipments (cm³/kg).
const volumetricDivisor = 5000

// Display-estimate pricing constants. The courier's own charged rate is
// outside the engine's control; this price is only shown to the client.
const (
	baseRate  = 50.0
	perKgRate = 30.0
)

// Dimensions are package dimensions in centimetres.
type Dimensions struct {
	Length float64
	Width  float64
	Height float64
}

// Weights is the weight breakdown for a shipment, all in kilograms.
type Weights struct {
	Volumetric float64
	Actual     float64
	Billable   float64
}

// ComputeWeights derives the volumetric, actual, and billable weight of a
// package. Billable is max(volumetric, actual). Pure function.
func ComputeWeights(dims Dimensions, actual float64) Weights {
	volumetric := round2(dims.Length * dims.Width * dims.Height / volumetricDivisor)
	if volumetric < 0 || math.IsNaN(volumetric) || math.IsInf(volumetric, 0) {
		volumetric = 0
	}
	if actual < 0 || math.IsNaN(actual) {
		actual = 0
	}

	return Weights{
		Volumetric: volumetric,
		Actual:     actual,
		Billable:   math.Max(volumetric, actual),
	}
}

// ParseWeights is the string-input variant used by form and import paths.
// Any field that fails to parse contributes 0.
func ParseWeights(length, width, height, actual string) Weights {
	return ComputeWeights(Dimensions{
		Length: parseFloat(length),
		Width:  parseFloat(width),
		Height: parseFloat(height),
	}, parseFloat(actual))
}

// ComputePrice returns the internally estimated price in whole rupees for a
// billable weight.
func ComputePrice(weight float64) int {
	return int(math.Round(baseRate + weight*perKgRate))
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
