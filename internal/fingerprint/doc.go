// Package fingerprint computes content digests that stand in for file identity.
//
// Files are streamed through SHA-256 in fixed-size chunks so memory stays
// bounded regardless of file size. Two files with equal fingerprints are
// treated as byte-identical everywhere in yee.
package fingerprint
