// Package interaction implements the command/reply exchange between a
// controller and the device server.
//
// # Client
//
// Client correlates commands with replies. Each Send takes a fresh message
// id, registers a pending entry, hands the encoded message to the Sender
// and waits:
//
//	c := interaction.NewClient(conn)
//	go conn.Run(ctx, func(data []byte) { _ = c.HandleData(data) })
//
//	reply, err := c.Send(ctx, wire.MsgBatteryLevelCmd, 0, nil)
//
// Every entry ends exactly once:
//
//   - resolved by the reply with the same id (MsgError replies become a
//     *wire.DomainError that unwraps to the matching wire sentinel)
//   - failed with wire.ErrConnectorChannelClosed when the Sender rejects
//     the message
//   - failed with wire.ErrConnectorNotConnected when the Client is closed
//   - abandoned when ctx ends; the entry is dropped and a late reply is
//     discarded like any reply with an unknown id
//
// Messages with id 0 are server events and go to the EventHandler.
//
// # Server
//
// Server owns the device roster on the device side and turns each command
// into exactly one reply via protocol.Device.ParseMessage. Failures are
// reported as MsgError with the wire error code of the failure.
package interaction
