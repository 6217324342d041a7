// Package tcp implements the TCP socket based transport of the image RPC system.
// It provides the connectors for the base package, which runs gRPC over them.
//
// Key Components:
//
//   - clientConnector: Dials host:port with the passthrough resolver, the address
//     is handed to the dialer unchanged
//
//   - serverConnector: Listens on host:port
package tcp
