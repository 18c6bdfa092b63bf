// Package cli provides the command-line interface for mockgate.
//
// Commands:
//   - serve: Run the mock server with replay and gateway handlers
//   - validate: Check a configuration file and the replay files it names
//   - replays inspect: List the entries of a replay file
//   - replays match: Show which entry of a replay file answers a request
//   - version: Show mockgate version
package cli
