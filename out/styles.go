// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

// GetLabel returns the axis label corresponding to key
func GetLabel(key, unit string) string {
	var l string
	switch key {
	case "t":
		l = "t"
	case "dt":
		l = "Δt"
	case "res":
		l = "residual"
	case "nit":
		l = "iterations"
	case "natt":
		l = "attempts"
	case "ncells":
		l = "cells"
	case "qmean":
		l = "mean quality"
	case "qmin":
		l = "min quality"
	case "z":
		l = "z"
	case "pl":
		l = "pℓ"
	case "uz":
		l = "uz"
	case "sz":
		l = "σ'z"
	default:
		l = key
	}
	if unit != "" {
		l += " [" + unit + "]"
	}
	return l
}
