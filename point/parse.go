package point

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse reads the textual form of a Point, accepting both separators the
// source documentation uses ("x:y" and "x;y"); a bare "x" means Y == 0.
func Parse(s string) (Point, error) {
	s = strings.TrimSpace(s)
	sep := strings.IndexAny(s, ":;")
	if sep < 0 {
		x, err := strconv.Atoi(s)
		if err != nil {
			return Point{}, fmt.Errorf("point: invalid coordinate %q", s)
		}
		return Point{X: x}, nil
	}
	x, err := strconv.Atoi(strings.TrimSpace(s[:sep]))
	if err != nil {
		return Point{}, fmt.Errorf("point: invalid x coordinate %q", s)
	}
	y, err := strconv.Atoi(strings.TrimSpace(s[sep+1:]))
	if err != nil {
		return Point{}, fmt.Errorf("point: invalid y coordinate %q", s)
	}
	return Point{X: x, Y: y}, nil
}
