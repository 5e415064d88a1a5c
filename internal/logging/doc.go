// Package logging provides concrete implementations of the linkupdater.Logger interface.
//
// Available implementations:
//   - ConsoleLogger: Writes timestamped, leveled lines tagged with a run id
//   - NullLogger: Discards all messages (useful for testing)
//
// Loggers are created per run and passed to the services that need them.
// All logger implementations are safe for concurrent use by multiple goroutines.
package logging
