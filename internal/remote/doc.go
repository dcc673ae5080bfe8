// Package remote is the gateway to the conference backend's remote functions.
//
// # Overview
//
// The backend exposes named functions that take string parameters and return
// JSON. Everything in lanyard that talks to the backend goes through the
// [Gateway] interface, so the core never depends on the transport.
//
// # Architecture
//
//   - gateway.go: Gateway interface, Function builder, typed helpers
//   - client.go: HTTP implementation
//   - fixtures.go: YAML-backed implementation for offline use and demos
//   - remotetest: scripted fake for tests
//
// # Client Usage
//
//	client, err := remote.NewClient("https://backend.example.com", 10*time.Second)
//	if err != nil {
//		return err
//	}
//
//	fn := remote.Fn("sessionsV2").
//		Param("cfpEndpoint", conf.CfpEndpoint()).
//		Param("conferenceId", conf.CfpVersion)
//	sessions, err := remote.List[model.Session](ctx, client, fn)
//
// # Request Handling
//
// Every call is a POST to /functions/<name> with the parameters as a JSON
// object. Requests carry Accept, Content-Type, User-Agent and a fresh
// X-Request-ID header so backend logs can be correlated with ours.
//
// # Error Handling
//
//   - Network errors: "execute request: ..."
//   - HTTP errors: *StatusError, "function favored returned status 500"
//   - Deserialization errors: "decode favored response: ..."
//
// Callers in the core log these and keep their views stale. Nothing in this
// package retries.
//
// # Thread Safety
//
// Client and Fixtures are safe for concurrent use.
package remote
