// Package catalog implements the song catalog and favorites logic.
//
// The manager coordinates catalog operations by:
//   - Validating and persisting songs
//   - Serving cached song listings when a cache is configured
//   - Linking users and songs through favorites
//   - Publishing catalog change events to the event bus
package catalog
