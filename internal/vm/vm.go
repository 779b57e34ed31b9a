// Package vm assembles the configuration of a guest VM before boot.
// It sizes CPU and memory against the platform bounds, provisions the disk
// images, and builds every device the hypervisor engine needs.
//
// Assembly is synchronous and keeps no state between calls. Callers must not
// assemble the same Identity concurrently; different identities are safe.
package vm
