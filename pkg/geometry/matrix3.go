package geometry

import "github.com/go-gl/mathgl/mgl64"

// Matrix3 is a column-major 3x3 matrix. Rotation matrices store the rotated
// frame axes in their columns.
type Matrix3 mgl64.Mat3

// IdentityMatrix3 returns the 3x3 identity
func IdentityMatrix3() Matrix3 {
	return Matrix3(mgl64.Ident3())
}

// Matrix3FromColumns builds a matrix whose columns are x, y and z
func Matrix3FromColumns(x, y, z Vector3) Matrix3 {
	return Matrix3(mgl64.Mat3FromCols(x.vec(), y.vec(), z.vec()))
}

// Column returns column i (0, 1 or 2)
func (m Matrix3) Column(i int) Vector3 {
	return vectorFrom(mgl64.Mat3(m).Col(i))
}

// At returns the element in row and column
func (m Matrix3) At(row, col int) float64 {
	return mgl64.Mat3(m).At(row, col)
}

// MulVector returns m * v
func (m Matrix3) MulVector(v Vector3) Vector3 {
	return vectorFrom(mgl64.Mat3(m).Mul3x1(v.vec()))
}

// Transpose returns the transposed matrix (the inverse of a rotation)
func (m Matrix3) Transpose() Matrix3 {
	return Matrix3(mgl64.Mat3(m).Transpose())
}

// Determinant of the matrix
func (m Matrix3) Determinant() float64 {
	return mgl64.Mat3(m).Det()
}
