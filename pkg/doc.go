// Package pkg provides the libraries behind the waypoints CLI and HTTP API.
//
// # Overview
//
// A waypoint library is an ordered collection of named geographic points
// kept as one JSON document. The pkg directory is organized by layer:
//
//  1. [waypoint] - the Waypoint value type and its JSON object form
//  2. [io] - JSON import and export of whole documents
//  3. [library] - the ordered, name-unique collection and its persistence
//  4. [store] - byte-level backends (file, memory, Redis, S3, PostgreSQL, MongoDB)
//  5. [server] - the HTTP API over a library
//  6. [events] - Kafka publishing of library changes
//  7. [observability], [errors], [buildinfo] - cross-cutting support
//
// # Architecture
//
// The typical data flow:
//
//	JSON document (file or store)
//	         ↓
//	    [io] package (decode, keep entry order)
//	         ↓
//	    [library] package (add, update, remove, lookup)
//	         ↓
//	    [store] package (save the re-encoded document)
//
// # Quick Start
//
//	lib, err := library.Load("waypoints.json")
//	if err != nil && !errors.Is(err, errors.ErrCodeIO) {
//	    return err
//	}
//	if err := lib.AddNew("39.1178", "-106.4452", "4401", "summit", "Mt. Elbert"); err != nil {
//	    return err
//	}
//	return lib.Save("waypoints.json")
//
// Every mutation is reported to [observability.Library], which is how the
// CLI logs changes and [events] publishes them.
package pkg
