// Package authtest provides an in-process user service speaking the same
// HTTP API as the production backend: cookie based sessions signed as
// JWTs, bcrypt password hashes and multipart profile updates. It is meant
// for tests and local demos of the authstate package.
package authtest
