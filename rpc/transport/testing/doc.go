// Package testing provides an in-memory transport and a standardised test suite
// for implementations of the transport.IRPCServerTransport and
// transport.IRPCClientTransport interfaces.
//
// The package contains:
//   - memory: A connected server/client transport pair on top of grpc's bufconn,
//     used by the end-to-end tests of the server and the client
//   - transport_testing: A conformance suite (health, all encodings, worker limit,
//     readiness timeout, shutdown)
//
// Example usage:
//
//	factory := func(t *testing.T) testing.TransportPair {
//		server, client := testing.NewMemoryTransports(testing.DefaultBufferSize)
//		...
//	}
//
//	testing.RunTransportTests(t, "MyTransport", factory)
package testing
