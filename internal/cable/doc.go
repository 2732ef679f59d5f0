// Package cable implements the cable force laws.
//
// A [Cable] is one elastic cable between a fixed anchor and the moving
// point mass. Its [Law] selects how length ℓ, length rate ℓ̇ and the
// commanded rest length u become a signed scalar force:
//
//	Linear             k(ℓ-u) + cℓ̇
//	HybridLinear       max(k(ℓ-u) + cℓ̇, 0)
//	HybridSplitLinear  max(k(ℓ-u), 0) + (cℓ̇ if k(ℓ-u) >= 0 and cℓ̇ >= 0)
//	PiecewiseLinear3D  max(k(ℓ-u) + cℓ̇, 0), 3D only
//
// The returned force is positive under tension. The vector form points
// from the anchor toward the point, so the simulator negates it before
// handing it to the body.
package cable
