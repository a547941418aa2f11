package utils

// Cycle steps an int-backed enum by delta, wrapping at both ends so the
// order loops. last is the highest valid value; a negative last means there
// is nothing to cycle through and v comes back unchanged.
func Cycle[T ~int](v T, delta int, last T) T {
	n := int(last) + 1
	if n <= 0 {
		return v
	}
	return T(((int(v)+delta)%n + n) % n)
}

// CyclePtr advances the enum in place.
func CyclePtr[T ~int](v *T, delta int, last T) {
	*v = Cycle(*v, delta, last)
}
