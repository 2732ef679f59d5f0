// Package dynamo provides the numeric primitives shared by the cable
// simulation packages.
//
// The package defines:
//
//   - [Dim]: the closed set of supported dimensionalities (1, 2 or 3)
//   - [Vec]: a fixed-dimension position, velocity or force vector
//   - [State]: the concatenated [pos, vel] vector of a point mass
//   - sentinel errors for precondition, domain and geometry violations
//
// # Dimensionality
//
// A [Vec] carries its dimension from construction onward. Components beyond
// the dimension are held at zero, so norms and dot products need no
// branching on size:
//
//	p, _ := dynamo.NewVec(0.1, 0.5, 2.0)
//	a, _ := dynamo.NewVec(0, 10, 10)
//	length := p.Sub(a).Norm()
//
// Mixing dimensions in vector arithmetic is a programming error and panics.
// Public entry points in other packages check dimensions first and report
// [ErrDimensionMismatch] instead.
package dynamo
