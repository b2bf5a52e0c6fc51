// Package store provides the in-memory state owned by callers of the
// reasoning loop.
//
//   - [History]: the rolling question/answer history of one session
//   - [Sessions]: a keyed set of per-session values, created on first use
//
// Nothing here is persisted; state lives for the lifetime of the process.
package store
