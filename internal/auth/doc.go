// Package auth provides password hashing and JWT access token handling.
//
// Passwords are hashed with bcrypt. Access tokens are HS256-signed JWTs
// carrying the user's email as subject and their role as a custom claim.
package auth
