// Package dryrun wraps gateways so the whole pipeline can run in
// preview mode. Reads delegate to the wrapped gateway unchanged;
// mutations announce what they would do through the Sink, never call
// the wrapped mutator, and return results shaped like real successes so
// downstream steps cannot tell the difference.
package dryrun
