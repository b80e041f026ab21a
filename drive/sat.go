package drive

import "golang.org/x/exp/constraints"

// The duration and burst counters feed the debounce and burst limiter
// conditions; a silent wraparound on either would corrupt both, so they
// only ever move through these helpers.

func satInc[T constraints.Unsigned](v T) T {
	if v == ^T(0) {
		return v
	}
	return v + 1
}

func decClamp[T constraints.Signed](v T) T {
	if v <= 0 {
		return 0
	}
	return v - 1
}
