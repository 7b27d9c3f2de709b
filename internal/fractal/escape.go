package fractal

// EscapeIterations iterates z = z*z + c from z = 0 with c = x0 + i*y0 and
// returns the number of iterations performed before |z|^2 exceeded 4, or
// maxIterations if it never did.
//
// The bound is tested before each iteration, so a point outside the radius
// still counts the first iteration.
func EscapeIterations(x0, y0 float64, maxIterations int) int {
	x, y := 0.0, 0.0
	i := 0
	for x*x+y*y <= 4 && i < maxIterations {
		xt := x*x - y*y + x0
		y = 2*x*y + y0
		x = xt
		i++
	}
	return i
}
