package io

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/waypoints/pkg/errors"
	"github.com/matzehuels/waypoints/pkg/waypoint"
)

// ReadJSON decodes a waypoint document from r.
//
// The input must be a JSON array of waypoint objects or a JSON object whose
// values are waypoint objects. The returned slice follows document order.
// Waypoints are converted with [waypoint.FromJSONObject] but not validated.
//
// ReadJSON returns an [errors.ErrCodeParse] error carrying the line and
// column of the first problem if:
//   - The text is not valid JSON
//   - The top-level value is neither an object nor an array
//   - An element is not an object (null included), or has a field of the
//     wrong type
//   - Anything but whitespace follows the top-level value
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) ([]waypoint.Waypoint, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read document")
	}
	return Parse(data)
}

// Parse decodes a waypoint document held in memory.
// See [ReadJSON] for the accepted shapes and the reported errors.
func Parse(data []byte) ([]waypoint.Waypoint, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err == io.EOF {
		return nil, errors.New(errors.ErrCodeParse, "empty document")
	}
	if err != nil {
		return nil, syntaxError(data, dec, err)
	}

	var out []waypoint.Waypoint
	switch tok {
	case json.Delim('['):
		for i := 0; dec.More(); i++ {
			w, err := decodeElement(data, dec, "")
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out = append(out, w)
		}
	case json.Delim('{'):
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, syntaxError(data, dec, err)
			}
			key, _ := keyTok.(string)
			w, err := decodeElement(data, dec, key)
			if err != nil {
				return nil, fmt.Errorf("waypoint %q: %w", key, err)
			}
			out = append(out, w)
		}
	default:
		return nil, errors.New(errors.ErrCodeParse, "%s: top-level value must be an object or an array", position(data, dec.InputOffset()))
	}

	// closing delimiter
	if _, err := dec.Token(); err != nil {
		return nil, syntaxError(data, dec, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New(errors.ErrCodeParse, "%s: unexpected data after document", position(data, dec.InputOffset()))
	}

	return out, nil
}

// ImportJSON reads a waypoint document from the file at path.
//
// ImportJSON opens the file, decodes it using [ReadJSON], and closes the
// file on every path. A file that cannot be opened is an
// [errors.ErrCodeIO] error; decoding failures are the same as [ReadJSON].
func ImportJSON(path string) ([]waypoint.Waypoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "open %s", path)
	}
	defer f.Close()
	return ReadJSON(f)
}

// decodeElement decodes the next value as a waypoint object.
// When the object has no name, fallbackName is used.
func decodeElement(data []byte, dec *json.Decoder, fallbackName string) (waypoint.Waypoint, error) {
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return waypoint.Waypoint{}, syntaxError(data, dec, err)
	}
	if obj == nil {
		return waypoint.Waypoint{}, errors.New(errors.ErrCodeParse, "%s: element must be an object", position(data, dec.InputOffset()))
	}
	w, err := waypoint.FromJSONObject(obj)
	if err != nil {
		return waypoint.Waypoint{}, err
	}
	if _, hasName := obj[waypoint.KeyName]; !hasName {
		w.Name = fallbackName
	}
	return w, nil
}

// syntaxError converts a decoder failure into a parse error with a position.
// Offsets inside SyntaxError are relative to the value being decoded, so
// the decoder's own input offset is used instead.
func syntaxError(data []byte, dec *json.Decoder, err error) error {
	offset := dec.InputOffset()
	if stderrors.Is(err, io.EOF) || stderrors.Is(err, io.ErrUnexpectedEOF) {
		offset = int64(len(data))
		err = io.ErrUnexpectedEOF
	}
	return errors.Wrap(errors.ErrCodeParse, err, "%s", position(data, offset))
}

// position renders a byte offset as "line L, column C" (both 1-based).
func position(data []byte, offset int64) string {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	line, col := 1, 1
	for _, b := range data[:offset] {
		if b == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return fmt.Sprintf("line %d, column %d", line, col)
}
