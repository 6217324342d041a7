// Package cmd implements the command-line interface of imgrpc. It provides a
// command to run the image server and a command to send an image to it.
//
// The package is organized into several subpackages:
//
//   - serve: Command for starting and configuring the image server
//   - client: Command for a single client run (rotate, optional mean filter)
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See imgrpc -help for a list of all commands.
package cmd
