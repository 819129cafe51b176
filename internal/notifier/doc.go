// Package notifier delivers the question of the day to an external channel.
//
// # Drivers
//
//   - telegram: sends an HTML message to a chat (optionally a forum thread)
//   - discord: posts an embed through a channel webhook
//   - log: writes the question to the log only (dry run)
//
// All drivers are wrapped by a retrying decorator with exponential backoff
// and a send rate limit. A Notify call that returns an error delivered
// nothing the caller should count on.
package notifier
