// Package base provides the foundation for the transport layers of the image RPC system.
// It implements the server and client transports on top of gRPC, independent of the
// network medium (TCP, Unix sockets, in-memory), which is contributed by connectors.
//
// The package focuses on:
//   - Protocol-agnostic client and server transport implementations
//   - A bounded number of concurrently handled calls on the server
//   - Waiting for a ready connection before the first call is made
//
// Key Components:
//
//   - IClientConnector/IServerConnector: Interfaces for medium specific operations
//     that allow extending the base transport with different network protocols.
//
//   - serverTransport: Creates the gRPC server with the registered services, the
//     health service and the interceptor chain. Shutdown drains running calls.
//
//   - clientTransport: Wraps a single grpc.ClientConn without transport security.
//     WaitReady follows the connectivity state until the connection is READY or the
//     context is done, calls made through Invoke never wait for readiness themselves.
//
// Interceptors:
//
//   - Limit: A counting semaphore allows at most Workers calls at the same time,
//     further calls wait until a slot is free or their deadline is exceeded.
//
//   - Logging: Logs method, request id, status code and duration on debug level.
//
// Thread Safety:
//
//	All public methods are thread-safe. Services and interceptors must be registered
//	before Listen is called.
package base
