// README: Geographic point value object and its "lat,lng" text form.
package types

import (
	"fmt"
	"strconv"
	"strings"
)

type Point struct {
	Lat float64
	Lng float64
}

// String renders the point the way activities store coordinates ("41.890210,12.492231").
func (p Point) String() string {
	return fmt.Sprintf("%.6f,%.6f", p.Lat, p.Lng)
}

// ParsePoint reads a "lat,lng" pair. Whitespace around either number is ignored.
func ParsePoint(s string) (Point, bool) {
	lat, lng, ok := strings.Cut(s, ",")
	if !ok {
		return Point{}, false
	}
	la, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil || la < -90 || la > 90 {
		return Point{}, false
	}
	ln, err := strconv.ParseFloat(strings.TrimSpace(lng), 64)
	if err != nil || ln < -180 || ln > 180 {
		return Point{}, false
	}
	return Point{Lat: la, Lng: ln}, true
}
