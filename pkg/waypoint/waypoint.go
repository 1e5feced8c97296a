// Package waypoint defines the Waypoint value type: a single named
// geographic point with latitude, longitude, elevation and an address.
//
// Waypoints have no identity beyond their fields. They are copied by value,
// and the Name field is what a library uses as the logical key.
//
// # JSON Form
//
// [Waypoint.ToJSONObject] exports the generic object form used in waypoint
// documents:
//
//	{"name": "summit", "address": "Mt. Elbert", "lat": 39.1178, "lon": -106.4452, "ele": 4401}
//
// [FromJSONObject] accepts the same keys, plus the long aliases
// "latitude", "longitude" and "elevation". Numeric fields may be JSON
// numbers or numeric strings.
package waypoint

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/waypoints/pkg/errors"
)

// JSON object keys written by [Waypoint.ToJSONObject].
const (
	KeyName    = "name"
	KeyAddress = "address"
	KeyLat     = "lat"
	KeyLon     = "lon"
	KeyEle     = "ele"
)

// aliases maps accepted long key names to their canonical short form.
var aliases = map[string]string{
	"latitude":  KeyLat,
	"longitude": KeyLon,
	"elevation": KeyEle,
}

// Waypoint is a named geographic point.
// Lat and Lon are in decimal degrees, Ele in meters. All three must be finite.
type Waypoint struct {
	Name    string  `json:"name" validate:"required"`
	Address string  `json:"address"`
	Lat     float64 `json:"lat" validate:"finite"`
	Lon     float64 `json:"lon" validate:"finite"`
	Ele     float64 `json:"ele" validate:"finite"`
}

// New builds a waypoint from explicit field values.
func New(lat, lon, ele float64, name, address string) Waypoint {
	return Waypoint{Name: name, Address: address, Lat: lat, Lon: lon, Ele: ele}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	}); err != nil {
		panic(err)
	}
	return v
}

// Validate checks that the waypoint has a non-empty name and finite
// coordinates. Any other name is accepted as is.
// Failures carry [errors.ErrCodeInvalidWaypoint].
func (w Waypoint) Validate() error {
	if err := validate.Struct(w); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidWaypoint, err, "waypoint %q", w.Name)
	}
	return nil
}

// FromJSONObject builds a waypoint from a decoded JSON object.
//
// Missing numeric keys default to zero and a missing address defaults to the
// empty string. A numeric key holding something that is neither a number nor
// a numeric string is a parse error. FromJSONObject does not validate the
// result; call [Waypoint.Validate] for that.
func FromJSONObject(obj map[string]any) (Waypoint, error) {
	var w Waypoint
	for key, val := range obj {
		if canon, ok := aliases[key]; ok {
			if _, shadowed := obj[canon]; shadowed {
				continue
			}
			key = canon
		}
		var err error
		switch key {
		case KeyName:
			w.Name, err = stringField(key, val)
		case KeyAddress:
			w.Address, err = stringField(key, val)
		case KeyLat:
			w.Lat, err = numberField(key, val)
		case KeyLon:
			w.Lon, err = numberField(key, val)
		case KeyEle:
			w.Ele, err = numberField(key, val)
		}
		if err != nil {
			return Waypoint{}, err
		}
	}
	return w, nil
}

// ToJSONObject exports the waypoint as a generic JSON object.
func (w Waypoint) ToJSONObject() map[string]any {
	return map[string]any{
		KeyName:    w.Name,
		KeyAddress: w.Address,
		KeyLat:     w.Lat,
		KeyLon:     w.Lon,
		KeyEle:     w.Ele,
	}
}

// String returns a one-line human readable form of the waypoint.
func (w Waypoint) String() string {
	return fmt.Sprintf("%s (%s) lat=%s lon=%s ele=%s",
		w.Name, w.Address, FormatFloat(w.Lat), FormatFloat(w.Lon), FormatFloat(w.Ele))
}

// FormatFloat renders a coordinate with the shortest exact representation.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func stringField(key string, val any) (string, error) {
	switch v := val.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	default:
		return "", errors.New(errors.ErrCodeParse, "field %q: expected string, got %T", key, val)
	}
}

func numberField(key string, val any) (float64, error) {
	switch v := val.(type) {
	case nil:
		return 0, nil
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, errors.Wrap(errors.ErrCodeParse, err, "field %q", key)
		}
		return f, nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, errors.Wrap(errors.ErrCodeParse, err, "field %q", key)
		}
		return f, nil
	default:
		return 0, errors.New(errors.ErrCodeParse, "field %q: expected number, got %T", key, val)
	}
}
