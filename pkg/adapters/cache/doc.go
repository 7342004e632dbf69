// Package cache defines the catalog listing cache port. The redis
// subpackage provides the production implementation; Noop disables
// caching when no Redis address is configured.
package cache
