package movers

import (
	"github.com/aretw0/pathsampling/pkg/domain"
)

// MakeListOfPairs normalizes pair input. It accepts nil, a flat []T of even
// length, a [][]T whose inner slices have length two, or a [][2]T.
func MakeListOfPairs[T any](in any) ([][2]T, error) {
	switch v := in.(type) {
	case nil:
		return nil, nil
	case [][2]T:
		if v == nil {
			return nil, nil
		}
		return append([][2]T(nil), v...), nil
	case []T:
		if v == nil {
			return nil, nil
		}
		if len(v)%2 != 0 {
			return nil, domain.InvalidConfiguration("", "flat pair list has odd length %d", len(v))
		}
		out := make([][2]T, 0, len(v)/2)
		for i := 0; i < len(v); i += 2 {
			out = append(out, [2]T{v[i], v[i+1]})
		}
		return out, nil
	case [][]T:
		if v == nil {
			return nil, nil
		}
		out := make([][2]T, 0, len(v))
		for i, p := range v {
			if len(p) != 2 {
				return nil, domain.InvalidConfiguration("", "pair %d has %d elements", i, len(p))
			}
			out = append(out, [2]T{p[0], p[1]})
		}
		return out, nil
	default:
		return nil, domain.InvalidConfiguration("", "cannot build pairs from %T", in)
	}
}
