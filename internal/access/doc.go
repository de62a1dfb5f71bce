// Package access decides which editorial roles may trigger which workflow
// transitions and who may reassign items.
//
// The Resolver is pure data: an edge must exist in the content graph before
// any role table is consulted, edge-keyed rules take precedence over the
// target-status defaults, and super roles skip the role table for every edge
// except the system-only scheduled publication edge.
package access
