// Package progress turns realtime job events into observable progress
// state for one view.
//
// A Projector is mounted for the lifetime of a view. While mounted it holds
// exactly one subscription on the shared channel, folds events of its topic
// into {status, progress, message}, and on the terminal status performs a
// single REST read of the finished artifact. The fold is idempotent:
// duplicates and stale (lower progress) events leave the state unchanged,
// and nothing is applied after the terminal event.
//
// Unmount releases the subscription immediately. In-flight REST calls are
// not cancelled, but their results are dropped once the projector is
// unmounted.
package progress
