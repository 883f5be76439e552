// Вспомогательные generic-функции для преобразования срезов и множеств.
package utils

// SliceToSlice преобразует срез одного типа в срез другого с помощью функции f.
func SliceToSlice[T any, U any](in *[]T, f func(*T) U) []U {
	if in == nil {
		return make([]U, 0)
	}
	out := make([]U, len(*in))
	for i, v := range *in {
		out[i] = f(&v)
	}
	return out
}

// SliceToSet преобразует срез в множество.
func SliceToSet[T comparable](ids []T) map[T]struct{} {
	set := make(map[T]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// CheckInSlice возвращает true, если все значения all присутствуют в in.
func CheckInSlice[T comparable](in []T, all ...T) bool {
	set := SliceToSet(in)
	for _, v := range all {
		if _, ok := set[v]; !ok {
			return false
		}
	}
	return true
}
