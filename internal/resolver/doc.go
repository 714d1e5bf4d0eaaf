// Package resolver builds the proxy-aware network plumbing for lookups:
// *net.Resolver instances for the system probe backend and SOCKS5 dialers
// for WHOIS, so that a configured SOCKS5 proxy carries all lookup traffic.
package resolver
