package math

// Vec2 represents a 2D vector
type Vec2 struct {
	X, Y float32
}

// Vec3 represents a 3D vector
type Vec3 struct {
	X, Y, Z float32
}

// Vec4 represents a 4D vector
type Vec4 struct {
	X, Y, Z, W float32
}

/**
 * @brief Represents the extents of a 3d object.
 */
type Extents3D struct {
	/** @brief The minimum extents of the object. */
	Min Vec3
	/** @brief The maximum extents of the object. */
	Max Vec3
}

/**
 * @brief The axis negated when converting from the authoring tool's
 * right-handed convention into the left-handed runtime convention.
 * The zero value is AxisZ.
 */
type Axis uint8

const (
	AxisZ Axis = iota
	AxisX
	AxisY
)
