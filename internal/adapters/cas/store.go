// Package cas persists per-unit build caches in a compact binary format.
package cas

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/cbuild/internal/core/domain"
	"go.trai.ch/cbuild/internal/core/ports"
	"go.trai.ch/zerr"
	"google.golang.org/protobuf/encoding/protowire"
)

var _ ports.CacheStore = (*Store)(nil)

// FormatVersion is bumped whenever the record layout changes.
const FormatVersion = 1

const trailerSize = 8

var magic = []byte("CBC")

// Record field numbers.
const (
	fieldVersion     protowire.Number = 1
	fieldFingerprint protowire.Number = 2
	fieldEntry       protowire.Number = 3
)

// Entry field numbers.
const (
	fieldSource         protowire.Number = 1
	fieldSourceChecksum protowire.Number = 2
	fieldObject         protowire.Number = 3
	fieldObjectChecksum protowire.Number = 4
)

// Store implements ports.CacheStore with one file per unit.
type Store struct{}

// NewStore creates a new Store.
func NewStore() *Store {
	return &Store{}
}

// Read loads the cache file at path. It returns nil and no error when the
// file does not exist.
func (s *Store) Read(path string) (*domain.CacheFile, error) {
	//nolint:gosec // Path is derived from the object directory and unit name
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(errors.Join(domain.ErrCacheReadFailed, err), "path", path)
	}

	file, err := Decode(data)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return file, nil
}

// Write stores file at path. The data is written to a temporary file first and
// renamed into place so readers never see a partial cache.
func (s *Store) Write(path string, file *domain.CacheFile) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(errors.Join(domain.ErrCacheWriteFailed, err), "path", path)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return zerr.With(errors.Join(domain.ErrCacheWriteFailed, err), "path", path)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(Encode(file)); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return zerr.With(errors.Join(domain.ErrCacheWriteFailed, err), "path", path)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return zerr.With(errors.Join(domain.ErrCacheWriteFailed, err), "path", path)
	}
	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		_ = os.Remove(tmpName)
		return zerr.With(errors.Join(domain.ErrCacheWriteFailed, err), "path", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return zerr.With(errors.Join(domain.ErrCacheWriteFailed, err), "path", path)
	}
	return nil
}

// Remove deletes the cache file at path. A missing file is not an error.
func (s *Store) Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return zerr.With(errors.Join(domain.ErrCacheRemoveFailed, err), "path", path)
	}
	return nil
}

// List returns the unit name to cache path mapping for every cache file in dir.
// A missing directory yields an empty map.
func (s *Store) List(dir string) (map[string]string, error) {
	out := make(map[string]string)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return out, nil
		}
		return nil, zerr.With(errors.Join(domain.ErrCacheReadFailed, err), "path", dir)
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, domain.CacheFilePrefix) || !strings.HasSuffix(name, domain.CacheFileSuffix) {
			continue
		}
		unit := strings.TrimSuffix(strings.TrimPrefix(name, domain.CacheFilePrefix), domain.CacheFileSuffix)
		if unit == "" {
			continue
		}
		out[unit] = filepath.Join(dir, name)
	}
	return out, nil
}

// Encode serializes file: the magic bytes and format version, a protobuf wire
// record, then a little-endian xxhash64 of everything before it.
func Encode(file *domain.CacheFile) []byte {
	var body []byte
	body = protowire.AppendTag(body, fieldVersion, protowire.VarintType)
	body = protowire.AppendVarint(body, FormatVersion)
	if file.Fingerprint != "" {
		body = protowire.AppendTag(body, fieldFingerprint, protowire.BytesType)
		body = protowire.AppendString(body, file.Fingerprint)
	}
	for _, e := range file.Entries {
		body = protowire.AppendTag(body, fieldEntry, protowire.BytesType)
		body = protowire.AppendBytes(body, encodeEntry(e))
	}

	out := make([]byte, 0, len(magic)+1+len(body)+trailerSize)
	out = append(out, magic...)
	out = append(out, FormatVersion)
	out = append(out, body...)
	out = binary.LittleEndian.AppendUint64(out, xxhash.Sum64(out))
	return out
}

func encodeEntry(e domain.CacheEntry) []byte {
	var b []byte
	b = protowire.AppendTag(b, fieldSource, protowire.BytesType)
	b = protowire.AppendString(b, e.Source)
	if !e.SourceChecksum.IsZero() {
		b = protowire.AppendTag(b, fieldSourceChecksum, protowire.BytesType)
		b = protowire.AppendString(b, string(e.SourceChecksum))
	}
	b = protowire.AppendTag(b, fieldObject, protowire.BytesType)
	b = protowire.AppendString(b, e.Object)
	if !e.ObjectChecksum.IsZero() {
		b = protowire.AppendTag(b, fieldObjectChecksum, protowire.BytesType)
		b = protowire.AppendString(b, string(e.ObjectChecksum))
	}
	return b
}

// Decode parses data written by Encode. Any damage, including a version
// mismatch, is reported as domain.ErrCacheCorrupt.
func Decode(data []byte) (*domain.CacheFile, error) {
	header := len(magic) + 1
	if len(data) < header+trailerSize || !bytes.Equal(data[:len(magic)], magic) {
		return nil, zerr.Wrap(domain.ErrCacheCorrupt, "missing cache header")
	}
	if v := data[len(magic)]; v != FormatVersion {
		return nil, zerr.With(zerr.Wrap(domain.ErrCacheCorrupt, "unsupported cache format"), "version", int(v))
	}

	payload := data[:len(data)-trailerSize]
	sum := binary.LittleEndian.Uint64(data[len(data)-trailerSize:])
	if xxhash.Sum64(payload) != sum {
		return nil, zerr.Wrap(domain.ErrCacheCorrupt, "cache checksum mismatch")
	}

	body := payload[header:]
	file := &domain.CacheFile{}
	sawVersion := false
	for len(body) > 0 {
		num, typ, n := protowire.ConsumeTag(body)
		if n < 0 {
			return nil, corrupt(n)
		}
		body = body[n:]

		switch {
		case num == fieldVersion && typ == protowire.VarintType:
			v, m := protowire.ConsumeVarint(body)
			if m < 0 {
				return nil, corrupt(m)
			}
			if v != FormatVersion {
				return nil, zerr.With(zerr.Wrap(domain.ErrCacheCorrupt, "unsupported cache format"), "version", v)
			}
			sawVersion = true
			n = m
		case num == fieldFingerprint && typ == protowire.BytesType:
			v, m := protowire.ConsumeString(body)
			if m < 0 {
				return nil, corrupt(m)
			}
			file.Fingerprint = v
			n = m
		case num == fieldEntry && typ == protowire.BytesType:
			v, m := protowire.ConsumeBytes(body)
			if m < 0 {
				return nil, corrupt(m)
			}
			entry, err := decodeEntry(v)
			if err != nil {
				return nil, err
			}
			file.Entries = append(file.Entries, entry)
			n = m
		default:
			n = protowire.ConsumeFieldValue(num, typ, body)
			if n < 0 {
				return nil, corrupt(n)
			}
		}
		body = body[n:]
	}

	if !sawVersion {
		return nil, zerr.Wrap(domain.ErrCacheCorrupt, "cache record has no version")
	}
	return file, nil
}

func decodeEntry(b []byte) (domain.CacheEntry, error) {
	var e domain.CacheEntry
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return e, corrupt(n)
		}
		b = b[n:]

		if typ != protowire.BytesType {
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return e, corrupt(n)
			}
			b = b[n:]
			continue
		}

		v, m := protowire.ConsumeString(b)
		if m < 0 {
			return e, corrupt(m)
		}
		switch num {
		case fieldSource:
			e.Source = v
		case fieldSourceChecksum:
			e.SourceChecksum = domain.Digest(v)
		case fieldObject:
			e.Object = v
		case fieldObjectChecksum:
			e.ObjectChecksum = domain.Digest(v)
		}
		b = b[m:]
	}
	if e.Source == "" || e.Object == "" {
		return e, zerr.Wrap(domain.ErrCacheCorrupt, "cache entry without source or object")
	}
	return e, nil
}

func corrupt(n int) error {
	return errors.Join(domain.ErrCacheCorrupt, protowire.ParseError(n))
}
