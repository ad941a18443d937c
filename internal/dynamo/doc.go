// Package dynamo provides the numeric primitives shared by the spin simulation.
//
// The package defines:
//
//   - [Vec3]: a 3D vector used for spin directions
//   - [Mat3]: a row-major 3x3 matrix
//   - [Axis] and [RotationMatrix]: right-handed axis-angle rotations
//   - [ParallelFor]: chunked fan-out for independent per-element work
//
// # Convention
//
// Vectors are columns. [Mat3.Apply] computes M·v, and every matrix returned
// by [RotationMatrix] is written for that product. Mixing a row-vector
// multiply with these matrices silently reverses the rotation direction.
//
// # Example
//
//	rot, err := dynamo.RotationMatrix(dynamo.AxisX, math.Pi)
//	if err != nil {
//		return err
//	}
//	v := rot.Apply(dynamo.Vec3{Z: 1}) // (0, 0, -1)
package dynamo
