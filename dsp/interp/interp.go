package interp

// Sample is the set of sample types the kernels accept.
type Sample interface {
	~float32 | ~float64
}

// Linear2 interpolates between x0 (t=0) and x1 (t=1).
func Linear2[F Sample](t, x0, x1 F) F {
	return x0 + t*(x1-x0)
}
