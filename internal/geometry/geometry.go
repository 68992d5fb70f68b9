package geometry

import (
	"fmt"
	"slices"

	"github.com/SeakMengs/Annotator/internal/apperror"
	"github.com/SeakMengs/Annotator/pkg/region"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// AllowedTypes are the GeoJSON geometry types an annotation may use.
var AllowedTypes = []string{
	orb.Point{}.GeoJSONType(),
	orb.MultiPoint{}.GeoJSONType(),
	orb.LineString{}.GeoJSONType(),
	orb.MultiLineString{}.GeoJSONType(),
	orb.Polygon{}.GeoJSONType(),
	orb.MultiPolygon{}.GeoJSONType(),
}

// Parse decodes an annotation geometry and rejects unsupported or empty shapes.
func Parse(raw []byte) (orb.Geometry, error) {
	g, err := geojson.UnmarshalGeometry(raw)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindBadRequest, "geometry", "geometry is not valid GeoJSON", err)
	}

	if g == nil || g.Coordinates == nil {
		return nil, apperror.BadRequest("geometry", "geometry is required")
	}

	geomType := g.Coordinates.GeoJSONType()
	if !slices.Contains(AllowedTypes, geomType) {
		return nil, apperror.BadRequest("geometry", fmt.Sprintf("geometry type %s is not supported", geomType))
	}

	if len(region.Points(g.Coordinates)) == 0 {
		return nil, apperror.BadRequest("geometry", "geometry must have at least one coordinate")
	}

	return g.Coordinates, nil
}
