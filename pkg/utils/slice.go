package utils

import (
	"sort"
)

// map each element in sli.
//
// args:
//     - sli : slice of `T`s
//     - mapper : mapping function from T to R
// return:
//     slice of `R`s.
//     each element indexed `N` is given with `mapper(sli[N])` .
func Map[T any, R any](sli []T, mapper func(v T) R) []R {
	ret := make([]R, len(sli))
	for nth, v := range sli {
		ret[nth] = mapper(v)
	}
	return ret
}

// Map over sli with mapper.
//
// If mapper causes error, return (nil, error).
//
// Otherwise, return (mapping result, nil).
func MapUntilError[T any, R any](sli []T, mapper func(v T) (R, error)) ([]R, error) {
	ret := make([]R, len(sli))
	for nth, v := range sli {
		r, err := mapper(v)
		if err != nil {
			return nil, err
		}
		ret[nth] = r
	}
	return ret, nil
}

// flatten map to slice
//
// args:
//   - m: map to be flatten
// returns:
//   slice which contains keys of `m`
func KeysOf[T any, K comparable](m map[K]T) []K {
	sli := make([]K, 0, len(m))
	for k := range m {
		sli = append(sli, k)
	}
	return sli
}

// filter elements match with predicator
//
// args:
//
// - vs: slice
//
// - predicator: function returns true for each element to be remain in result
//
// returns:
//
// - []T: elements in vs which predicator returns true
func Filter[T any](vs []T, predicator func(v T) bool) []T {
	filtered := []T{}
	for _, v := range vs {
		if predicator(v) {
			filtered = append(filtered, v)
		}
	}
	return filtered
}

// find the first element match with predicator
//
// args:
//
// - vs: slice
//
// - predicator: function returns true for the element to be found
//
// returns:
//
// - T: the first element in vs which predicator returns true
//
// - bool: true if such element is found
func First[T any](vs []T, predicator func(v T) bool) (T, bool) {
	for _, v := range vs {
		if predicator(v) {
			return v, true
		}
	}
	return *new(T), false
}

// get sorted copy of sli, leaving sli itself as it is.
func Sorted[T any](sli []T, less func(a, b T) bool) []T {
	ret := make([]T, len(sli))
	copy(ret, sli)
	sort.Slice(ret, func(i, j int) bool { return less(ret[i], ret[j]) })
	return ret
}

// apply all fs to v, one by one.
func ApplyAll[T any](v T, fs ...func(T) T) T {
	for _, f := range fs {
		v = f(v)
	}
	return v
}
