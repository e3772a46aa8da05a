// Package notifications delivers run events via pluggable notifiers.
//
// The default implementation publishes to ntfy using the topic configured in
// config.toml and gracefully degrades to a no-op when no topic is set.
// Per-event toggles let users subscribe to run lifecycle, review, and error
// events independently. Delivery failures surface as errors for the caller
// to log; they never fail the run that produced them.
//
// Extend this package if you need alternative transports; workflow code
// depends only on the Service interface.
package notifications
