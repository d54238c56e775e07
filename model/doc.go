// Package model defines the core identifier and value types shared across
// the lexgo packages: terms, document ids, segment ids and search candidates.
package model
