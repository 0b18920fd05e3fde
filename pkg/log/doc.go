// Package log captures protocol events for debugging and analysis.
//
// It is separate from operational logging (slog). Protocol capture
// records every frame, message and session state change as a
// machine-readable Event, so a session can be replayed and inspected
// after the fact.
//
// # Usage
//
// Components accept a Logger:
//
//	// Console output via slog
//	conn.SetProtocolLogger(log.NewSlogAdapter(slog.Default()))
//
//	// Binary capture file
//	fl, _ := log.NewFileLogger("/tmp/session.hlog")
//	defer fl.Close()
//
//	// Both
//	conn.SetProtocolLogger(log.NewMultiLogger(log.NewSlogAdapter(slog.Default()), fl))
//
// # Layers
//
//   - Transport: frame sizes and raw bytes (FrameEvent)
//   - Wire: decoded messages (MessageEvent)
//   - Session: device and connection state changes (StateChangeEvent)
//
// Errors at any layer are recorded as ErrorEventData.
//
// # File Format
//
// Capture files (.hlog) are a plain sequence of CBOR-encoded events with
// integer keys. Reader streams them back, optionally filtered.
package log
