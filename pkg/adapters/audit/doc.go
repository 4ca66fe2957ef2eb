// Package audit wraps gateways with a transparent observation layer:
// every call goes through to the wrapped gateway unchanged, and on the
// way back out it is logged and emitted as a domain.GatewayEvent through
// the configured hooks. Stacking order matters: audit outside dry-run
// records what the preview decided, audit inside records what actually
// reached the external system.
package audit
