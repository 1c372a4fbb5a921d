// Package cache tracks per-unit source and object checksums between runs and
// decides which sources are stale.
package cache

import (
	"slices"

	"go.trai.ch/cbuild/internal/core/domain"
	"go.trai.ch/cbuild/internal/core/ports"
	"go.trai.ch/zerr"
)

// TaskCache is the build cache of one unit. It holds the entries loaded from,
// or saved to, the unit's cache file and the transient set of sources due for
// recompilation in the current run.
type TaskCache struct {
	checksummer ports.Checksummer
	store       ports.CacheStore

	entries     []domain.CacheEntry
	fingerprint string

	recompile    []string
	recompileSet map[string]struct{}
}

// New creates an empty TaskCache.
func New(checksummer ports.Checksummer, store ports.CacheStore) *TaskCache {
	return &TaskCache{
		checksummer:  checksummer,
		store:        store,
		recompileSet: make(map[string]struct{}),
	}
}

// Create seeds the cache from positionally paired sources and objects and
// marks every source for recompilation. Files that do not exist yet get an
// empty checksum.
func (c *TaskCache) Create(sources, objects []string) error {
	if len(sources) != len(objects) {
		return zerr.With(zerr.With(zerr.Wrap(domain.ErrSourceObjectMismatch, "failed to create cache"),
			"sources", len(sources)), "objects", len(objects))
	}

	entries := make([]domain.CacheEntry, 0, len(sources))
	for i, src := range sources {
		srcSum, err := c.checksumIfExists(src)
		if err != nil {
			return err
		}
		objSum, err := c.checksumIfExists(objects[i])
		if err != nil {
			return err
		}
		entries = append(entries, domain.CacheEntry{
			Source:         src,
			SourceChecksum: srcSum,
			Object:         objects[i],
			ObjectChecksum: objSum,
		})
	}

	c.entries = append(c.entries, entries...)
	for _, src := range sources {
		c.MarkRecompile(src)
	}
	return nil
}

// Load replaces the entries with the cache file at path. It returns false
// when there is no such file.
func (c *TaskCache) Load(path string) (bool, error) {
	file, err := c.store.Read(path)
	if err != nil {
		return false, err
	}
	if file == nil {
		return false, nil
	}

	c.entries = slices.Clone(file.Entries)
	c.fingerprint = file.Fingerprint
	return true, nil
}

// Reconcile aligns a loaded cache with the current source and object lists.
// Entries whose pair is unchanged are kept in the new order; new pairs are
// checksummed like in Create and marked for recompilation. It reports whether
// the pair list changed, in which case the target must be relinked.
func (c *TaskCache) Reconcile(sources, objects []string) (bool, error) {
	if len(sources) != len(objects) {
		return false, zerr.With(zerr.With(zerr.Wrap(domain.ErrSourceObjectMismatch, "failed to reconcile cache"),
			"sources", len(sources)), "objects", len(objects))
	}

	known := make(map[[2]string]domain.CacheEntry, len(c.entries))
	for _, e := range c.entries {
		known[[2]string{e.Source, e.Object}] = e
	}

	changed := len(sources) != len(c.entries)
	entries := make([]domain.CacheEntry, 0, len(sources))
	for i, src := range sources {
		if i < len(c.entries) && (c.entries[i].Source != src || c.entries[i].Object != objects[i]) {
			changed = true
		}
		if e, ok := known[[2]string{src, objects[i]}]; ok {
			entries = append(entries, e)
			continue
		}

		srcSum, err := c.checksumIfExists(src)
		if err != nil {
			return false, err
		}
		objSum, err := c.checksumIfExists(objects[i])
		if err != nil {
			return false, err
		}
		entries = append(entries, domain.CacheEntry{
			Source:         src,
			SourceChecksum: srcSum,
			Object:         objects[i],
			ObjectChecksum: objSum,
		})
		c.MarkRecompile(src)
	}

	c.entries = entries
	return changed, nil
}

// Save writes the entries and fingerprint to path. The recompile set is not persisted.
func (c *TaskCache) Save(path string) error {
	return c.store.Write(path, &domain.CacheFile{
		Fingerprint: c.fingerprint,
		Entries:     slices.Clone(c.entries),
	})
}

// IsSourceUpToDate reports whether the source at path still has the checksum
// recorded for it. Unknown and missing files are never up to date.
func (c *TaskCache) IsSourceUpToDate(path string) (bool, error) {
	i := c.indexBySource(path)
	if i < 0 {
		return false, nil
	}
	return c.matches(path, c.entries[i].SourceChecksum)
}

// IsObjectUpToDate reports whether the object at path still has the checksum
// recorded for it. Unknown and missing files are never up to date.
func (c *TaskCache) IsObjectUpToDate(path string) (bool, error) {
	i := c.indexByObject(path)
	if i < 0 {
		return false, nil
	}
	return c.matches(path, c.entries[i].ObjectChecksum)
}

// UpdateSource refreshes the stored checksum of the source at path.
func (c *TaskCache) UpdateSource(path string) error {
	i := c.indexBySource(path)
	if i < 0 {
		return nil
	}
	sum, err := c.checksumIfExists(path)
	if err != nil {
		return err
	}
	c.entries[i].SourceChecksum = sum
	return nil
}

// UpdateObject refreshes the stored checksum of the object at path.
func (c *TaskCache) UpdateObject(path string) error {
	i := c.indexByObject(path)
	if i < 0 {
		return nil
	}
	sum, err := c.checksumIfExists(path)
	if err != nil {
		return err
	}
	c.entries[i].ObjectChecksum = sum
	return nil
}

// Clear empties the entries and the recompile set.
func (c *TaskCache) Clear() {
	c.entries = nil
	c.recompile = nil
	c.recompileSet = make(map[string]struct{})
}

// MarkRecompile adds path to the recompile set.
func (c *TaskCache) MarkRecompile(path string) {
	if _, ok := c.recompileSet[path]; ok {
		return
	}
	c.recompileSet[path] = struct{}{}
	c.recompile = append(c.recompile, path)
}

// NeedsRecompile reports whether path is in the recompile set.
func (c *TaskCache) NeedsRecompile(path string) bool {
	_, ok := c.recompileSet[path]
	return ok
}

// RecompileSet returns the sources due for recompilation in the order they were marked.
func (c *TaskCache) RecompileSet() []string {
	return slices.Clone(c.recompile)
}

// Entries returns a copy of the cache entries.
func (c *TaskCache) Entries() []domain.CacheEntry {
	return slices.Clone(c.entries)
}

// Snapshot returns a copy of the entries for comparing object checksums after a compile pass.
func (c *TaskCache) Snapshot() []domain.CacheEntry {
	return slices.Clone(c.entries)
}

// Fingerprint returns the configuration fingerprint the entries belong to.
func (c *TaskCache) Fingerprint() string {
	return c.fingerprint
}

// SetFingerprint records the configuration fingerprint saved with the entries.
func (c *TaskCache) SetFingerprint(fp string) {
	c.fingerprint = fp
}

func (c *TaskCache) matches(path string, stored domain.Digest) (bool, error) {
	if stored.IsZero() || !c.checksummer.Exists(path) {
		return false, nil
	}
	sum, err := c.checksummer.Checksum(path)
	if err != nil {
		return false, err
	}
	return sum == stored, nil
}

func (c *TaskCache) checksumIfExists(path string) (domain.Digest, error) {
	if !c.checksummer.Exists(path) {
		return "", nil
	}
	return c.checksummer.Checksum(path)
}

func (c *TaskCache) indexBySource(path string) int {
	return slices.IndexFunc(c.entries, func(e domain.CacheEntry) bool { return e.Source == path })
}

func (c *TaskCache) indexByObject(path string) int {
	return slices.IndexFunc(c.entries, func(e domain.CacheEntry) bool { return e.Object == path })
}
