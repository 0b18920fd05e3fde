// Package client is the controller-side API for haptic devices.
//
// A Client wraps one session with a device server. Devices announced by
// the session are added with AddDevice and controlled through their
// Device handle:
//
//	c := client.New(conn, client.WithLogger(logger))
//	go conn.Run(ctx, func(data []byte) { _ = c.HandleData(data) })
//
//	dev, _ := c.AddDevice(info)
//	err := dev.Vibrate(ctx, command.Uniform[float64]{Value: 0.5})
//
// Every command goes through the same steps: the device must support the
// message type, the convenience command is expanded against the feature
// count, the connection gate must admit it, and the reply type is checked.
// A command rejected in any of these steps never reaches the wire.
//
// Device.Events delivers device removal, client disconnection and raw
// endpoint readings. Events published before a subscription exists are
// not replayed.
package client
