package builder

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/cbuild/internal/core/domain"
)

// Fingerprint hashes the settings that influence how a unit's objects are
// compiled. A cache saved under a different fingerprint is discarded.
// includeSums holds the content digest of each forced include in u.Includes,
// in the same order, so a rewritten header invalidates every object compiled
// against it. Link-only settings are not part of it.
func Fingerprint(u *domain.Unit, includeSums []domain.Digest) string {
	h := xxhash.New()

	write := func(s string) {
		_, _ = h.WriteString(s)
		_, _ = h.Write([]byte{0})
	}
	writeList := func(tag string, values []string) {
		write(tag)
		write(strconv.Itoa(len(values)))
		for _, v := range values {
			write(v)
		}
	}

	write(u.Compiler)
	write(string(u.Mode))
	write(string(u.Type))
	write(u.ObjectDir)
	writeList("flags", u.Flags)
	writeList("defines", u.Defines)
	writeList("includes", u.Includes)
	writeList("include_paths", u.IncludePaths)

	write("include_sums")
	write(strconv.Itoa(len(includeSums)))
	for _, d := range includeSums {
		write(d.String())
	}

	return strconv.FormatUint(h.Sum64(), 16)
}

// includeSums checksums the forced includes of u that exist as files.
// Includes found only through the include paths hash as the zero digest.
func (b *Builder) includeSums(u *domain.Unit) ([]domain.Digest, error) {
	sums := make([]domain.Digest, len(u.Includes))
	for i, inc := range u.Includes {
		if !b.checksummer.Exists(inc) {
			continue
		}
		sum, err := b.checksummer.Checksum(inc)
		if err != nil {
			return nil, err
		}
		sums[i] = sum
	}
	return sums, nil
}
