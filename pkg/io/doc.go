// Package io provides JSON import and export for waypoint documents.
//
// # Overview
//
// A waypoint document is a single JSON text holding every waypoint of a
// library. This package is the JSON engine underneath [library.Library]: it
// turns text into an ordered slice of [waypoint.Waypoint] values and back.
//
// # JSON Format
//
// Documents are written as one object keyed by waypoint name, indented with
// two spaces, in entry order:
//
//	{
//	  "summit": {
//	    "address": "Mt. Elbert",
//	    "ele": 4401,
//	    "lat": 39.1178,
//	    "lon": -106.4452,
//	    "name": "summit"
//	  }
//	}
//
// Two shapes are accepted on read: the object form above, and a top-level
// array of waypoint objects:
//
//	[
//	  {"name": "summit", "lat": 39.1178, "lon": -106.4452, "ele": 4401}
//	]
//
// In the object form an inner object without a "name" key takes its name
// from the object key. Document order is preserved for both shapes.
//
// # Import
//
// Use [ImportJSON] to read a document from a file path, [ReadJSON] to read
// from any io.Reader, or [Parse] for bytes already in memory:
//
//	wps, err := io.ImportJSON("waypoints.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Malformed text is reported as [errors.ErrCodeParse] with the line and
// column of the problem. A file that cannot be opened or read is reported
// as [errors.ErrCodeIO].
//
// # Export
//
// Use [ExportJSON] to write a document to a file, [WriteJSON] to write to
// any io.Writer, or [Marshal] for the bytes alone.
//
// Export does not check names. Two waypoints with the same name are written
// as two members with the same key, and [Parse] reads both back in order.
// Such a document does not load into a [library.Library], which rejects
// duplicate names.
//
// [library.Library]: github.com/matzehuels/waypoints/pkg/library.Library
package io
