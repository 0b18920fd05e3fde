// Package server runs the device side of a session.
//
// A Server owns the device roster and serves one transport.Conn at a time.
// Each incoming frame is handled on its own goroutine, so a slow device
// write never holds up replies for other devices:
//
//	srv := server.New(server.Config{Logger: logger})
//	info, err := srv.AddDevice("Je Joue", protocol.ModelJeJoue, attrs, hw)
//	if err := srv.Attach(conn); err != nil {
//		return err
//	}
//	go srv.Serve(ctx, conn)
//
// Attach registers the connection synchronously; events raised between
// AddDevice and the first read of Serve are delivered, not lost.
//
// Besides replies, the server sends two kinds of events with message id 0:
// DeviceRemoved when a device leaves the roster, and RawReading for data
// pushed by subscribed endpoints.
package server
