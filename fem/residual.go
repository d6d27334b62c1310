// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"

	"github.com/cpmech/goseep/ele"
	"gonum.org/v1/gonum/floats"
)

// Residual computes the change between two coupling iterates
//
//   r = sqrt(Σ ΔP² + Σ ΔU²) / nverts
//
// It returns +Inf if the fields are empty or have different sizes.
func Residual(a, b *ele.FieldState) float64 {
	n := a.Nverts()
	if n == 0 || b.Nverts() != n || len(a.U) != len(b.U) {
		return math.Inf(1)
	}
	dp := floats.Distance(a.P, b.P, 2)
	du := floats.Distance(a.U, b.U, 2)
	return math.Sqrt(dp*dp+du*du) / float64(n)
}
