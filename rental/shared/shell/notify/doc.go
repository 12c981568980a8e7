// Package notify holds the notification sinks of the rental engine.
//
// Enqueue is fire-and-forget in every sink: a failed delivery is logged, never returned.
// Inbox keeps per-user read state for the HTTP API, SlogSink and RedisSink forward
// notifications to a log or a Redis list, and Fanout delivers to several sinks from a
// background worker.
package notify
