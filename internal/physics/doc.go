// Package physics provides the body model driven by the cable simulation.
//
// [PointMass] holds mass, gravity magnitude, position and velocity, and turns
// an externally assembled list of applied forces into the state derivative
// [vel, accel]. Gravity is not part of the force list; the body applies it
// itself.
//
// # Gravity Axis
//
// Two conventions exist and are fixed per constructor:
//
//	physics.NewPointMass(m, g, pos, vel)   // g along axis 1 when d >= 2
//	physics.NewPointMass3D(m, g, pos, vel) // g along axis 2 (Z), d == 3
//
// A 3D body built with [NewPointMass] therefore treats Y as "up", while one
// built with [NewPointMass3D] treats Z as "up".
package physics
