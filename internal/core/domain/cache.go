package domain

// Digest is a hex-encoded content hash. The zero value means the file did not
// exist when the checksum was taken.
type Digest string

// IsZero reports whether no checksum was recorded.
func (d Digest) IsZero() bool {
	return d == ""
}

// String returns the hex digest, or "-" for a missing checksum.
func (d Digest) String() string {
	if d == "" {
		return "-"
	}
	return string(d)
}

// CacheEntry pairs one source file with the object compiled from it and the
// checksums both had after the last successful compile.
type CacheEntry struct {
	Source         string
	SourceChecksum Digest
	Object         string
	ObjectChecksum Digest
}

// CacheFile is the persisted form of a unit's cache.
type CacheFile struct {
	// Fingerprint identifies the compile configuration the entries were produced with.
	Fingerprint string
	Entries     []CacheEntry
}
