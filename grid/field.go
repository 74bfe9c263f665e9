package grid

import "math"

// Field is the capability interface every grid element type satisfies.
// Statistics reduction and byte encoding are written once against it instead
// of being duplicated per element type.
//
// Channels are the encodable components of the element: a scalar has one, a
// vector three. A Vorton exposes its vorticity through Channels/Magnitude
// because encoding is vorticity-driven; its position is reachable through the
// Positioned interface instead.
type Field interface {
	// Channels returns the number of encodable channels of the element type.
	Channels() int
	// Channel returns the value of channel i. i must be in [0, Channels()).
	Channel(i int) float32
	// Magnitude returns the Euclidean magnitude across all channels.
	Magnitude() float32
}

// Positioned is satisfied by particle-like elements that carry a world-space
// position in addition to their field value.
type Positioned interface {
	Pos() Vec3
}

// Component exposes the full float32 storage layout of an element for
// lossless serialization. Unlike Channels, it covers every stored component:
// a Vorton has three encodable channels but six storage components.
type Component interface {
	// NumComponents returns the number of stored float32 components.
	NumComponents() int
	// Component returns stored component i.
	Component(i int) float32
}

// ComponentPtr is the pointer-receiver half of Component, used by readers
// that reconstruct elements in place.
type ComponentPtr[T any] interface {
	*T
	// SetComponent assigns stored component i.
	SetComponent(i int, v float32)
}

// Scalar is a single-channel field element.
type Scalar float32

func (s Scalar) Channels() int          { return 1 }
func (s Scalar) Channel(int) float32    { return float32(s) }
func (s Scalar) Magnitude() float32     { return float32(math.Abs(float64(s))) }
func (s Scalar) NumComponents() int     { return 1 }
func (s Scalar) Component(int) float32  { return float32(s) }
func (s *Scalar) SetComponent(_ int, v float32) { *s = Scalar(v) }

// Vec3 as a field element: three channels, one per axis.

func (v Vec3) Channels() int         { return 3 }
func (v Vec3) Channel(i int) float32 { return v.Axis(i) }
func (v Vec3) NumComponents() int    { return 3 }
func (v Vec3) Component(i int) float32 {
	return v.Axis(i)
}

func (v *Vec3) SetComponent(i int, val float32) {
	switch i {
	case 0:
		v.X = val
	case 1:
		v.Y = val
	default:
		v.Z = val
	}
}

// Mat33 is a row-major 3x3 matrix element, used for Jacobian and strain-rate
// fields. Matrices participate in storage and statistics but have no
// brick-of-bytes channel layout.
type Mat33 [9]float32

func (m Mat33) Channels() int         { return 9 }
func (m Mat33) Channel(i int) float32 { return m[i] }

// Magnitude returns the Frobenius norm of the matrix.
func (m Mat33) Magnitude() float32 {
	var sum float64
	for _, e := range m {
		sum += float64(e) * float64(e)
	}
	return float32(math.Sqrt(sum))
}

func (m Mat33) NumComponents() int               { return 9 }
func (m Mat33) Component(i int) float32          { return m[i] }
func (m *Mat33) SetComponent(i int, v float32)   { m[i] = v }

// Vorton is a vortex particle record: a world-space position and the
// vorticity it carries. Encoding and statistics channels are the vorticity
// components; position travels along as informational payload.
type Vorton struct {
	Position  Vec3
	Vorticity Vec3
}

func (v Vorton) Channels() int         { return 3 }
func (v Vorton) Channel(i int) float32 { return v.Vorticity.Axis(i) }
func (v Vorton) Magnitude() float32    { return v.Vorticity.Magnitude() }

// Pos returns the particle position.
func (v Vorton) Pos() Vec3 { return v.Position }

func (v Vorton) NumComponents() int { return 6 }

// Component returns storage component i: position first, vorticity second.
func (v Vorton) Component(i int) float32 {
	if i < 3 {
		return v.Position.Axis(i)
	}
	return v.Vorticity.Axis(i - 3)
}

func (v *Vorton) SetComponent(i int, val float32) {
	if i < 3 {
		v.Position.SetComponent(i, val)
		return
	}
	v.Vorticity.SetComponent(i-3, val)
}
