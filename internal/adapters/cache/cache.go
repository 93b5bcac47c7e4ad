package cache

// Package cache provides durable-cache adapters for the session core. The
// cache is a non-authoritative snapshot: every adapter treats a missing or
// malformed identity entry as absent and deletes bad entries on read.

// identityKey is the fixed name of the serialized identity snapshot,
// matching the key the original web client used.
const identityKey = "userData"
