// Package daemon provides the main orchestration for timedated.
// It drives the registration state machine (bus acquired, name acquired,
// name lost), signals readiness to a supervisor, and optionally watches
// the configuration file for changes.
package daemon
