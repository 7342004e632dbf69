// Package domain defines the core entities of the music catalog: users,
// songs, favorites and the change events emitted when they are modified.
package domain
