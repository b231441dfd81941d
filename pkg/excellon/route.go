package excellon

// routeTracker follows the tool position through the body of a drill file and
// decides whether a coordinate produces a drill hit or closes a routed slot.
//
// Missing axes keep their previous value, as Excellon coordinates are modal.
type routeTracker struct {
	cursor  Point
	routing bool
}

// moveTo applies the axes present in x and y to the cursor and returns the previous position
func (r *routeTracker) moveTo(x, y string, decode func(string) float64) Point {
	prev := r.cursor
	if x != "" {
		r.cursor.X = decode(x)
	}
	if y != "" {
		r.cursor.Y = decode(y)
	}
	return prev
}

// plunge starts a routed path (M15)
func (r *routeTracker) plunge() {
	r.routing = true
}

// retract ends a routed path (M16)
func (r *routeTracker) retract() {
	r.routing = false
}

// routeTo moves the cursor along a routed path (G01) and returns the slot it cut
func (r *routeTracker) routeTo(x, y string, decode func(string) float64) Command {
	start := r.moveTo(x, y, decode)
	return NewSlot(start.X, start.Y, r.cursor.X, r.cursor.Y)
}

// hit moves the cursor and returns a drill hit at the new position
func (r *routeTracker) hit(x, y string, decode func(string) float64) Command {
	r.moveTo(x, y, decode)
	return NewHole(r.cursor.X, r.cursor.Y)
}
