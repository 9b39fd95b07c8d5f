package geo

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidCoordinate is returned when a raw coordinate pair cannot be
// parsed to finite numbers. Callers building marker sets should skip the
// offending record and continue with the rest.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

const (
	// fixedPointScale recovers decimal degrees from the catalog's
	// fixed-point integer encoding (e.g. "1290000000" -> 129.0).
	fixedPointScale = 1e7

	// decimalDegreeLimit separates already-decimal input from fixed-point
	// input. The upstream feed is inconsistent and delivers both encodings;
	// any magnitude below this limit is treated as degrees as-is. A
	// legitimate fixed-point value below the limit would be misread, but no
	// such value has been observed and the upstream contract is unclear.
	decimalDegreeLimit = 1000
)

// Normalize converts a raw coordinate pair from the tourism catalog into a
// Position. The source encodes x as longitude and y as latitude; the result
// carries explicit Lat/Lng fields to keep the axis order from getting
// transposed downstream.
func Normalize(xRaw, yRaw string) (Position, error) {
	x, err := strconv.ParseFloat(strings.TrimSpace(xRaw), 64)
	if err != nil {
		return Position{}, fmt.Errorf("%w: x=%q", ErrInvalidCoordinate, xRaw)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(yRaw), 64)
	if err != nil {
		return Position{}, fmt.Errorf("%w: y=%q", ErrInvalidCoordinate, yRaw)
	}
	if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
		return Position{}, fmt.Errorf("%w: non-finite pair (%q, %q)", ErrInvalidCoordinate, xRaw, yRaw)
	}

	if math.Abs(x) < decimalDegreeLimit && math.Abs(y) < decimalDegreeLimit {
		return Position{Lat: y, Lng: x}, nil
	}

	return Position{Lat: y / fixedPointScale, Lng: x / fixedPointScale}, nil
}
