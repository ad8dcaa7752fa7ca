// Package credstore provides CredentialStore implementations for the
// authenticated client.
//
// MemoryStore keeps tokens in process memory. SQLiteStore persists them in a
// local SQLite database (modernc.org/sqlite, schema applied with goose) and,
// when opened with a passphrase, seals every value with cryptox.Sealer so the
// file never holds a token in clear text.
package credstore
