// Package blobstore provides storage for lazy-load databases, their indexes
// and table output.
//
// Store is the interface every backend implements. Implementations must be
// safe for concurrent use.
//
// # Built-in Implementations
//
//   - MemoryStore: in-memory, for tests and scratch contexts
//   - LocalStore: local filesystem, reads through mmap
//   - s3.Store and s3.DDBCommitStore: Amazon S3, optionally with DynamoDB commits
//   - minio.Store: MinIO and other S3-compatible services
//   - sqlite.Store: a single SQLite database file
//
// CachingStore wraps any Store with a block cache so that repeated range
// reads of a remote database do not hit the network.
package blobstore
