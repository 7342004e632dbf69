// Package events defines the event bus port used to broadcast catalog
// changes (songs, users, favorites) to subscribers such as the WebSocket
// feed.
//
// Implementations:
//   - memory: in-process fan-out, also used in tests
//   - redis: Redis Streams with consumer groups
package events
