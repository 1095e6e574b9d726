// Package commands defines the scanstation CLI and wires dependencies for subcommands.
//
// Commands
//
//   - serve      Run the kiosk web front-end
//   - stock-in   Scan a batch from a keyboard-wedge scanner and submit it
//   - stock-out  Activate batteries one scan at a time
//   - stock      List stock, activated batteries, the summary, or save a report
//   - users      Manage inventory server accounts
//   - batches    Inspect the local submission journal and print batch sheets
//   - migrate    Apply journal migrations
//
// # Implementation
//
// The root command loads the configuration before any subcommand runs. The
// inventory client logs in and the journal opens on first use, so commands
// that only read the journal never contact the inventory server.
package commands
