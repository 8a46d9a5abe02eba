// Package indicators provides health indicators for the resources a typical
// identity server depends on: its database, local disk, cluster peers and
// process memory.
//
// Every indicator implements health.Indicator. Failures to reach a resource
// are reported as down statuses carrying diagnostic attributes; errors and
// panics that escape are left to the health.Guard.
package indicators
