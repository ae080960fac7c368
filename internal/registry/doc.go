// Package registry holds the service identities allowed to ship logs and
// answers authentication and authorization queries against them.
//
// Identities are keyed by service name; a second index maps the SHA-256
// digest of each API key back to its service so Authenticate never touches
// raw credentials after registration. All state is process-resident and
// guarded by a single RWMutex; a restart loses every registration except
// the configured bootstrap seeds.
package registry
