// Package state caches the last value written to each device feature and
// computes the merged feature vector for a new command.
//
// A Cache holds one category (vibrate, rotate, linear) of one device.
// Update merges a canonical subcommand sequence into it:
//
//	merged, changed, err := cache.Update(subs, true)
//	if !changed {
//	    return nil // nothing visible changed, suppress the hardware write
//	}
//	// merged has one entry per feature
//
// A partial update only overwrites the features it names. A non-partial
// update zeroes every feature it does not name, so Update(nil, false) is
// a stop.
//
// Each Cache has its own mutex, held only while merging. Callers perform
// hardware I/O after Update returns.
package state
