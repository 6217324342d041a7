// Package unix implements a transport layer for the image RPC system using Unix
// domain sockets, for client and server running on the same machine.
//
// This package extends the base transport layer with Unix socket specific connectors
// while inheriting the gRPC server and client from the base package.
//
// Key Components:
//
//   - clientConnector: Connects to the socket path through the "unix:" resolver of gRPC
//
//   - serverConnector: Removes a stale socket file and listens on the socket path
//
// Images do not leave the machine, large payloads avoid the TCP/IP stack.
package unix
