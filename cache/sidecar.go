package cache

import (
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/hupe1980/binstore/internal/fs"
)

// LoadSidecar reads the comma-separated bin-index list from path and seeds
// the cache with them in file order, mapping each to an empty snapshot
// pending its first real load. A missing sidecar is not an error. Tokens
// that do not parse as integers are logged and skipped.
func LoadSidecar(fsys fs.FileSystem, path string, c *Cache, logger *slog.Logger) error {
	f, err := fsys.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return err
	}

	for _, line := range strings.Split(string(raw), "\n") {
		for _, tok := range strings.Split(line, ",") {
			tok = strings.TrimSpace(tok)
			if tok == "" {
				continue
			}
			bin, err := strconv.Atoi(tok)
			if err != nil {
				if logger != nil {
					logger.Warn("cache sidecar: skipping non-integer token", "token", tok)
				}
				continue
			}
			c.Seed(bin, nil)
		}
	}
	return nil
}

// WriteSidecar rewrites path with the cache's current bin order as a
// single comma-separated line.
func WriteSidecar(fsys fs.FileSystem, path string, c *Cache) error {
	order := c.Order()
	toks := make([]string, len(order))
	for i, bin := range order {
		toks[i] = strconv.Itoa(bin)
	}

	f, err := fsys.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := io.WriteString(f, strings.Join(toks, ",")); err != nil {
		return err
	}
	return f.Sync()
}
