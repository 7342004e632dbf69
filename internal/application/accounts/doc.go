// Package accounts implements user lifecycle and authentication.
//
// The manager coordinates account operations by:
//   - Creating and updating users with bcrypt-hashed passwords
//   - Authenticating credentials and minting access tokens
//   - Publishing user change events to the event bus
package accounts
