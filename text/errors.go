package text

import "errors"

var (
	errNegativeRange = errors.New("exclusion range has negative start or length")
	errOutOfBounds   = errors.New("exclusion range extends past end of normalized bytes")
	errUnsorted      = errors.New("exclusion ranges are not sorted ascending by start")
	errOverlap       = errors.New("exclusion ranges overlap")
)
