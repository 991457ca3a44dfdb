// Package dataset carries numeric values together with per-axis metadata
// across the inversion boundary.
//
// Solvers in this module operate on plain matrices; callers that keep their
// signals in richer containers (coordinates, labels, units) adapt them once
// at the boundary with a Container and re-attach metadata to the recovered
// distribution afterwards. No solving logic ever reads the metadata.
package dataset

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrNilValues    = errors.New("dataset: values matrix is nil")
	ErrAxisMismatch = errors.New("dataset: axis coordinate count does not match values shape")
)

// Axis describes one dimension of a container: a human-readable label, a
// unit string, and optional coordinate values along that dimension.
type Axis struct {
	Label  string
	Unit   string
	Coords []float64
}

// Container pairs a dense values matrix with axis metadata. Axis 0 describes
// the rows, axis 1 the columns. Axes without coordinates are allowed; axes
// beyond the two matrix dimensions are rejected.
type Container struct {
	values *mat.Dense
	axes   []Axis
}

// New wraps values and axes into a Container. Each axis that carries
// coordinates must match the corresponding matrix dimension.
func New(values *mat.Dense, axes ...Axis) (*Container, error) {
	if values == nil {
		return nil, ErrNilValues
	}

	r, c := values.Dims()
	dims := []int{r, c}

	if len(axes) > len(dims) {
		return nil, fmt.Errorf("dataset: %d axes for a 2-dimensional container: %w",
			len(axes), ErrAxisMismatch)
	}

	for i, ax := range axes {
		if ax.Coords != nil && len(ax.Coords) != dims[i] {
			return nil, fmt.Errorf("dataset: axis %d has %d coordinates for dimension of size %d: %w",
				i, len(ax.Coords), dims[i], ErrAxisMismatch)
		}
	}

	return &Container{values: values, axes: append([]Axis(nil), axes...)}, nil
}

// Values returns the numeric content of the container.
func (c *Container) Values() *mat.Dense {
	return c.values
}

// Axes returns a copy of the axis metadata.
func (c *Container) Axes() []Axis {
	return append([]Axis(nil), c.axes...)
}

// WithValues derives a container holding v under the same axes. The shape of
// v must agree with any axis coordinates carried over.
func (c *Container) WithValues(v *mat.Dense) (*Container, error) {
	return New(v, c.axes...)
}
