// Package inspect provides a development inspector for the reactive
// graph: an HTTP server that streams graph activity (flush cycles,
// effect runs, signal writes) to connected clients over WebSocket, with
// a Prometheus scrape endpoint mounted alongside.
//
//	ins := inspect.New()
//	reactive.SetInstrument(ins)
//	http.ListenAndServe(":7911", ins.Handler())
//
// Intended for development; the event stream carries internal IDs and is
// served without authentication.
package inspect
