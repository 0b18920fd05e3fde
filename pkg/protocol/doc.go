// Package protocol routes device commands to per-model handlers.
//
// A Device pairs one piece of hardware with the Handler built for its
// model. Device.ParseMessage checks that the device supports a message,
// validates feature indices and value ranges, and calls the handler.
//
// # Handlers
//
// Base implements every Handler method. For the motion categories
// (vibrate, rotate, linear, stop) it merges the command into the
// device's state.CommandManager and, only when the merged vector changed,
// asks the model Encoder for the writes to perform:
//
//	merged, changed, err := manager.UpdateVibration(subs, true)
//	if changed {
//	    for _, w := range encoder.EncodeVibration(attrs, merged) {
//	        hw.WriteValue(ctx, w)
//	    }
//	}
//
// Raw commands bypass the cache and go straight to the hardware.
//
// A model with an unusual wire format usually only supplies an Encoder.
// One that needs different behavior embeds *Base and overrides the
// relevant Handle method.
//
// # Registry
//
// A Registry maps model identifiers to handler factories. Models without
// an entry get Base with the IdentityEncoder.
package protocol
