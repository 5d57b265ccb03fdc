package domain

import (
	"fmt"
	"strconv"
)

// ParseOrderID parses an order id taken from a request path.
// Only plain base-10 integers are accepted.
func ParseOrderID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: order id %q is not an integer", ErrInvalidArgument, raw)
	}
	return id, nil
}
