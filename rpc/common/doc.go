// Package common provides the protocol vocabulary and configuration shared by the
// dFS server and client.
//
// The package focuses on:
//   - The command vocabulary (verbs, argument rules, command lines)
//   - The directory listing announced after every command
//   - Configuration structures for client and server components
//   - Custom logging implementation integrated with Dragonboat's logger facade
//
// Key Components:
//
//   - Verb / Command: A command line is `<verb> <args>`. ParseCommand turns a line
//     into a Command and classifies malformed lines (ErrEmptyCommand,
//     ErrUnknownVerb, ErrMissingArgument). Both peers use the same parser, so the
//     client can reject a command before it is sent.
//
//   - Listing: The directory state frame (absolute path, directories section,
//     files section). Because a result frame that the server swallowed is followed
//     directly by the listing, IsListing lets a client detect a missing result.
//
//   - ServerConfig / ClientConfig: Transport settings, session behavior (root,
//     settle delay, chunk size, transfer limit) and observability settings.
//
//   - Logger: dfsLogger implements dragonboat's logger.ILogger, InitLoggers
//     installs it for all dFS loggers.
package common
