package domain

import "strconv"

// Version is an optimistic concurrency token. Reads hand it out and writes
// must present it back; only the persistence layer creates new values.
type Version struct {
	n int64
}

// VersionOf wraps a stored version counter.
func VersionOf(n int64) Version {
	return Version{n: n}
}

// Int64 returns the stored counter for persistence and transport.
func (v Version) Int64() int64 { return v.n }

// IsZero reports whether the aggregate has never been persisted.
func (v Version) IsZero() bool { return v.n == 0 }

// Next returns the version a successful write produces.
func (v Version) Next() Version { return Version{n: v.n + 1} }

func (v Version) String() string { return strconv.FormatInt(v.n, 10) }
