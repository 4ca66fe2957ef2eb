// Package memory provides the fake gateways: in-memory realizations of
// the capability contracts driven by injected fixtures, recording every
// call in order. They exist so the whole pipeline can run hermetically
// in tests, and they must stay behaviorally equivalent to the live
// adapters, which the shared contract suites in pkg/ports enforce.
//
// The package also carries the manual Clock used wherever tests need to
// drive time by hand.
package memory
