// Package filelock provides cross-process mutual exclusion for roster files.
//
// The CLI, the TUI and a second terminal may all edit the same roster file.
// A [FileLock] serialises their reads and writes with flock(2) on a sidecar
// lock file next to the guarded file, so a save never interleaves with
// another process's load.
//
// # Basic Usage
//
//	fl := filelock.New("/home/me/.config/coupe/roster.json")
//	if err := fl.Lock(); err != nil {
//		return err
//	}
//	defer func() { _ = fl.Unlock() }()
//
// [FileLock.TryLock] acquires without blocking, and [FileLock.LockContext]
// polls until the lock is free or the context is done.
package filelock
