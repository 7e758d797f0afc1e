// Package resource bounds what execution contexts may consume.
//
//   - Memory: off-heap vector data pinned for native code through DATAPTR,
//     plus the lazy-load file cache. Pinning fails fast with
//     ErrMemoryLimitExceeded; the cache evicts instead.
//   - Fetch slots: lazy-load records decoded in parallel by FetchAll.
//   - IO: a token bucket over bytes read from blob stores and bytes of
//     written tables.
//
// A nil *Controller is valid and imposes no limits.
package resource
