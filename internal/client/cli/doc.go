// Package cli is the gophauth command-line client.
//
// Every command runs through one authclient.Client, so an expired access
// token is renewed transparently and a dead session is reported once.
// Commands: register, login, logout, status, get, post, put, delete, burst
// and shell, an interactive loop over the same operations.
package cli
