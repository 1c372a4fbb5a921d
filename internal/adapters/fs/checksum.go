package fs

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"os"

	"go.trai.ch/cbuild/internal/core/domain"
	"go.trai.ch/cbuild/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Checksummer = (*Checksummer)(nil)

// Checksummer computes SHA-256 content digests.
type Checksummer struct{}

// NewChecksummer creates a new Checksummer.
func NewChecksummer() *Checksummer {
	return &Checksummer{}
}

// Checksum streams the file at path through SHA-256 and returns the hex digest.
func (c *Checksummer) Checksum(path string) (domain.Digest, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the unit's source list
	if err != nil {
		return "", zerr.With(errors.Join(domain.ErrChecksumFailed, err), "path", path)
	}
	defer func() {
		_ = f.Close()
	}()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", zerr.With(errors.Join(domain.ErrChecksumFailed, err), "path", path)
	}

	return domain.Digest(hex.EncodeToString(h.Sum(nil))), nil
}

// Exists reports whether path names an existing file.
func (c *Checksummer) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
