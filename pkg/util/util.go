package util

import (
	"fmt"
	"math"
)

func RoundFloat(val float64, precision uint) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}

func ReverseG[T any](arr []T) []T {
	copyArr := make([]T, len(arr)) // should do on the copy )
	copy(copyArr, arr)
	for i, j := 0, len(copyArr)-1; i < j; i, j = i+1, j-1 {
		copyArr[i], copyArr[j] = copyArr[j], copyArr[i]
	}
	return copyArr
}

// AssertPanic panics with msg when cond is false. only for programmer errors, user data must be validated before.
func AssertPanic(cond bool, msg string, args ...any) {
	if !cond {
		panic(fmt.Sprintf(msg, args...))
	}
}

// Pairwise returns every consecutive pair of arr. nil when arr has less than two items.
func Pairwise[T any](arr []T) [][2]T {
	if len(arr) < 2 {
		return nil
	}
	pairs := make([][2]T, 0, len(arr)-1)
	for i := 1; i < len(arr); i++ {
		pairs = append(pairs, [2]T{arr[i-1], arr[i]})
	}
	return pairs
}
