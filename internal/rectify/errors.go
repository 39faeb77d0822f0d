package rectify

import "errors"

var (
	// ErrInvalidInput is returned when a quad does not hold exactly four
	// finite points.
	ErrInvalidInput = errors.New("invalid quad")

	// ErrDegenerateGeometry is returned when the corners are coincident or
	// collinear and no invertible perspective transform exists.
	ErrDegenerateGeometry = errors.New("degenerate quad geometry")

	// ErrInvalidDimensions is returned when the estimated output size is
	// too small to hold a rectified image.
	ErrInvalidDimensions = errors.New("invalid rectified dimensions")
)
