package dynamo

import (
	"fmt"
	"math"
	"strings"
)

// Axis identifies one of the three coordinate axes.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return fmt.Sprintf("axis(%d)", int(a))
	}
}

// Valid reports whether a is one of AxisX, AxisY, AxisZ.
func (a Axis) Valid() bool { return a >= AxisX && a <= AxisZ }

// ParseAxis maps "x", "y" or "z" (any case) to an Axis.
func ParseAxis(name string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "x":
		return AxisX, nil
	case "y":
		return AxisY, nil
	case "z":
		return AxisZ, nil
	}
	return 0, fmt.Errorf("%w: unknown axis %q", ErrInvalidArgument, name)
}

// MarshalText encodes the axis as its lowercase letter.
func (a Axis) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("%w: unknown axis %d", ErrInvalidArgument, int(a))
	}
	return []byte(a.String()), nil
}

// UnmarshalText accepts the same identifiers as ParseAxis.
func (a *Axis) UnmarshalText(text []byte) error {
	parsed, err := ParseAxis(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Mat3 is a 3x3 matrix stored row-major: element (row i, col j) is m[3*i+j].
type Mat3 [9]float64

// Identity returns the 3x3 identity matrix.
func Identity() Mat3 {
	return Mat3{1, 0, 0, 0, 1, 0, 0, 0, 1}
}

// RotationMatrix returns the right-handed rotation by angle radians about axis.
func RotationMatrix(axis Axis, angle float64) (Mat3, error) {
	s, c := math.Sincos(angle)
	switch axis {
	case AxisX:
		return Mat3{
			1, 0, 0,
			0, c, -s,
			0, s, c,
		}, nil
	case AxisY:
		return Mat3{
			c, 0, s,
			0, 1, 0,
			-s, 0, c,
		}, nil
	case AxisZ:
		return Mat3{
			c, -s, 0,
			s, c, 0,
			0, 0, 1,
		}, nil
	}
	return Mat3{}, fmt.Errorf("%w: unknown axis %d", ErrInvalidArgument, int(axis))
}

// RotationMatrixFor parses name with ParseAxis and builds the rotation.
func RotationMatrixFor(name string, angle float64) (Mat3, error) {
	axis, err := ParseAxis(name)
	if err != nil {
		return Mat3{}, err
	}
	return RotationMatrix(axis, angle)
}

// Apply returns M·v.
func (m Mat3) Apply(v Vec3) Vec3 {
	return Vec3{
		X: m[0]*v.X + m[1]*v.Y + m[2]*v.Z,
		Y: m[3]*v.X + m[4]*v.Y + m[5]*v.Z,
		Z: m[6]*v.X + m[7]*v.Y + m[8]*v.Z,
	}
}

// Mul returns the matrix product m·o.
func (m Mat3) Mul(o Mat3) Mat3 {
	var r Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[3*i+j] = m[3*i]*o[j] + m[3*i+1]*o[3+j] + m[3*i+2]*o[6+j]
		}
	}
	return r
}

func (m Mat3) Transpose() Mat3 {
	return Mat3{
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
	}
}

func (m Mat3) Det() float64 {
	return m[0]*(m[4]*m[8]-m[5]*m[7]) -
		m[1]*(m[3]*m[8]-m[5]*m[6]) +
		m[2]*(m[3]*m[7]-m[4]*m[6])
}

// ApproxEqual reports whether every element of m and o differs by at most tol.
func (m Mat3) ApproxEqual(o Mat3, tol float64) bool {
	for i := range m {
		if math.Abs(m[i]-o[i]) > tol {
			return false
		}
	}
	return true
}
