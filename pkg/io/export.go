package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/waypoints/pkg/errors"
	"github.com/matzehuels/waypoints/pkg/waypoint"
)

// indent is the per-level indentation of exported documents.
const indent = "  "

// Marshal encodes waypoints as one JSON object keyed by name.
// Keys appear in slice order and the result is indented with two spaces.
// Names are not checked: repeated names produce repeated object keys, and
// [Parse] returns each of them as its own entry.
func Marshal(wps []waypoint.Waypoint) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, w := range wps {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(w.Name)
		if err != nil {
			return nil, fmt.Errorf("encode name %q: %w", w.Name, err)
		}
		val, err := json.Marshal(w.ToJSONObject())
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidWaypoint, err, "encode waypoint %q", w.Name)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", indent); err != nil {
		return nil, fmt.Errorf("indent: %w", err)
	}
	return out.Bytes(), nil
}

// WriteJSON encodes waypoints with [Marshal] and writes them to w,
// followed by a newline. The output can be re-imported with [ReadJSON].
func WriteJSON(wps []waypoint.Waypoint, w io.Writer) error {
	data, err := Marshal(wps)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write document")
	}
	return nil
}

// ExportJSON writes waypoints to a JSON file at path, replacing any
// existing content. The file is closed on every path.
func ExportJSON(wps []waypoint.Waypoint, path string) error {
	data, err := Marshal(wps)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create %s", path)
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		f.Close()
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "close %s", path)
	}
	return nil
}
