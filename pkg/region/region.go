// Package region computes pixel regions of annotation geometries for IIIF
// image requests.
//
// Annotations are drawn on a flat map whose coordinates are stored as GeoJSON
// [lng, lat] pairs. At the projection's zoom level one map unit spans 2^zoom
// image pixels. Latitude grows upward on the map while image rows grow
// downward, so the y axis is flipped during conversion.
package region

import (
	"fmt"
	"math"
	"strings"

	"github.com/paulmach/orb"
)

// Projection converts map coordinates to image pixels.
type Projection struct {
	// Zoom is the map zoom level at which one map unit equals 2^Zoom pixels.
	Zoom int
}

func (p Projection) scale() float64 {
	return math.Ldexp(1, p.Zoom)
}

// ToPixel converts a GeoJSON position into image pixel coordinates.
func (p Projection) ToPixel(pt orb.Point) (x, y float64) {
	s := p.scale()
	return pt.Lon() * s, -pt.Lat() * s
}

// Region is an IIIF pixel region.
type Region struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Array returns the region as [x, y, width, height].
func (r Region) Array() [4]int {
	return [4]int{r.X, r.Y, r.Width, r.Height}
}

func (r Region) IsEmpty() bool {
	return r.Width == 0 || r.Height == 0
}

// String formats the region as the IIIF "x,y,w,h" path segment.
func (r Region) String() string {
	return fmt.Sprintf("%d,%d,%d,%d", r.X, r.Y, r.Width, r.Height)
}

// FromGeometry returns the bounding region of g in image pixels.
// Coordinates outside the image are clamped to zero; an empty geometry
// yields the zero region.
func FromGeometry(g orb.Geometry, p Projection) Region {
	return FromPoints(Points(g), p)
}

// FromPoints returns the bounding region of pts in image pixels.
func FromPoints(pts []orb.Point, p Projection) Region {
	if len(pts) == 0 {
		return Region{}
	}

	x0, y0 := p.ToPixel(pts[0])
	x1, y1 := x0, y0
	for _, pt := range pts[1:] {
		x, y := p.ToPixel(pt)
		x0 = math.Min(x0, x)
		y0 = math.Min(y0, y)
		x1 = math.Max(x1, x)
		y1 = math.Max(y1, y)
	}

	// Round outward so the crop always covers the whole shape
	minX, minY := math.Floor(x0), math.Floor(y0)
	maxX, maxY := math.Ceil(x1), math.Ceil(y1)

	return Region{
		X:      clamp(minX),
		Y:      clamp(minY),
		Width:  clamp(math.Abs(maxX - minX)),
		Height: clamp(math.Abs(maxY - minY)),
	}
}

// Points lists the positions that bound g. Only outer rings of polygons are
// considered since holes never extend the bounding box.
func Points(g orb.Geometry) []orb.Point {
	switch v := g.(type) {
	case orb.Point:
		return []orb.Point{v}
	case orb.MultiPoint:
		return v
	case orb.LineString:
		return v
	case orb.MultiLineString:
		var pts []orb.Point
		for _, ls := range v {
			pts = append(pts, ls...)
		}
		return pts
	case orb.Ring:
		return v
	case orb.Polygon:
		if len(v) == 0 {
			return nil
		}
		return v[0]
	case orb.MultiPolygon:
		var pts []orb.Point
		for _, poly := range v {
			if len(poly) > 0 {
				pts = append(pts, poly[0]...)
			}
		}
		return pts
	case orb.Bound:
		return []orb.Point{v.Min, v.Max}
	case orb.Collection:
		var pts []orb.Point
		for _, child := range v {
			pts = append(pts, Points(child)...)
		}
		return pts
	default:
		return nil
	}
}

// MaxComponent bounds every region component. Larger values cannot be
// converted to int reliably and no image server accepts them.
const MaxComponent = math.MaxInt32

func clamp(v float64) int {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v >= MaxComponent {
		return MaxComponent
	}
	return int(v)
}

// IIIFURL builds an image request for the region of an IIIF image service.
// size follows the IIIF size syntax, e.g. "max" or "!256,256".
func IIIFURL(base string, r Region, size string) string {
	if size == "" {
		size = "max"
	}

	base = strings.TrimSuffix(strings.TrimRight(base, "/"), "/info.json")
	region := r.String()
	if r.IsEmpty() {
		region = "full"
	}

	return fmt.Sprintf("%s/%s/%s/0/default.jpg", base, region, size)
}
