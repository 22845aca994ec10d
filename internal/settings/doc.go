// Package settings provides the chained key/value store behind each context.
//
// Every context owns one Store node. A child's node points at its parent's
// node, so the chain mirrors the context tree. Reads flatten the chain from
// the root down, with entries on a more specific node shadowing
// identically-keyed entries further up; writes only ever touch the node's
// own mapping.
package settings
