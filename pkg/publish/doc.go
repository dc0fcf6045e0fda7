// Package publish persists rendered documents as named snapshots.
//
// A Store keeps the latest snapshot per name plus a timestamped history.
// DirStore writes to the local filesystem; see s3_example.go for an S3
// backed implementation.
package publish
