// Package transport defines the interfaces and abstractions for RPC communication
// in the image RPC system. It provides a common contract that all transport
// implementations must fulfill, so server and client code is independent of the
// medium (TCP or Unix sockets) used to carry the gRPC calls.
//
// Key Components:
//
//   - IRPCServerTransport: Interface for server-side transport implementations that
//     accept connections and dispatch calls to the registered services.
//
//   - IRPCClientTransport: Interface for client-side transport implementations that
//     handle connection management, readiness and call invocation.
//
// The implementations live in the sub packages: base provides the gRPC based core,
// tcp and unix add the medium specific connectors, testing provides an in-memory
// transport and a conformance suite.
package transport
