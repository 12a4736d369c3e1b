package models

import "errors"

// ErrInvalidProfile is returned when a profile cannot be scored at all.
// A non-positive monthly income is the only condition that triggers it;
// every other out-of-range field is clamped rather than rejected.
var ErrInvalidProfile = errors.New("invalid profile: monthly income must be positive")
