package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/mapfault/terrapush/pkg/geodetic"
	"github.com/mapfault/terrapush/pkg/push"
)

var (
	// ErrNoRegion means neither bounds nor a GeoJSON file configure a
	// usable push region.
	ErrNoRegion = errors.New("no push region configured")

	// ErrBadGeoJSON means the region file is not a usable GeoJSON
	// document.
	ErrBadGeoJSON = errors.New("invalid region GeoJSON")
)

// Rectangle resolves the configured push region to a geographic
// rectangle in radians.
func (rc RegionConfig) Rectangle() (geodetic.Rectangle, error) {
	if rc.GeoJSON != "" {
		data, err := os.ReadFile(rc.GeoJSON)
		if err != nil {
			return geodetic.Rectangle{}, fmt.Errorf("reading region file: %w", err)
		}
		return RectangleFromGeoJSON(data)
	}

	rect := geodetic.RectangleFromDegrees(rc.West, rc.South, rc.East, rc.North)
	if !rect.IsValid() {
		return geodetic.Rectangle{}, ErrNoRegion
	}
	return rect, nil
}

// Region builds the push region from the configuration. The resolved
// rectangle becomes the inner rectangle, or the outer one when Outer
// is set.
func (rc RegionConfig) Region() (*push.Region, error) {
	rect, err := rc.Rectangle()
	if err != nil {
		return nil, err
	}
	if rc.Outer {
		return push.NewRegionFromOuter(rect), nil
	}
	return push.NewRegion(rect), nil
}

// RectangleFromGeoJSON returns the rectangle bounding all geometry in
// a GeoJSON document. Feature collections, single features and bare
// geometries are accepted; coordinates are degrees.
func RectangleFromGeoJSON(data []byte) (geodetic.Rectangle, error) {
	bound, err := geoJSONBound(data)
	if err != nil {
		return geodetic.Rectangle{}, err
	}
	rect := geodetic.RectangleFromDegrees(bound.Min[0], bound.Min[1], bound.Max[0], bound.Max[1])
	if !rect.IsValid() {
		return geodetic.Rectangle{}, fmt.Errorf("%w: geometry bounds have no area", ErrBadGeoJSON)
	}
	return rect, nil
}

// geoJSONBound dispatches on the document's type member, as GeoJSON
// defines it, and returns the bound of all contained geometry.
func geoJSONBound(data []byte) (orb.Bound, error) {
	var doc struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return orb.Bound{}, fmt.Errorf("%w: %v", ErrBadGeoJSON, err)
	}

	switch doc.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return orb.Bound{}, fmt.Errorf("%w: %v", ErrBadGeoJSON, err)
		}
		var bound orb.Bound
		have := false
		for _, f := range fc.Features {
			if f == nil || f.Geometry == nil {
				continue
			}
			if !have {
				bound = f.Geometry.Bound()
				have = true
			} else {
				bound = bound.Union(f.Geometry.Bound())
			}
		}
		if !have {
			return orb.Bound{}, fmt.Errorf("%w: feature collection has no geometry", ErrBadGeoJSON)
		}
		return bound, nil

	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return orb.Bound{}, fmt.Errorf("%w: %v", ErrBadGeoJSON, err)
		}
		if f.Geometry == nil {
			return orb.Bound{}, fmt.Errorf("%w: feature has no geometry", ErrBadGeoJSON)
		}
		return f.Geometry.Bound(), nil

	case "":
		return orb.Bound{}, fmt.Errorf("%w: document has no type member", ErrBadGeoJSON)

	default:
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return orb.Bound{}, fmt.Errorf("%w: %v", ErrBadGeoJSON, err)
		}
		return g.Geometry().Bound(), nil
	}
}
