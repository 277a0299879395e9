package geds

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iota-uz/utils/fs"

	"github.com/gcdevops/geds-sync/modules/directory/domain"
)

// Cache keeps the last downloaded extract as a UTF-8 CSV on disk.
type Cache struct {
	Path string
}

func (c Cache) Exists() bool {
	return fs.FileExists(c.Path)
}

func (c Cache) Save(ds domain.Dataset) error {
	if err := os.MkdirAll(filepath.Dir(c.Path), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(c.Path), err)
	}
	tmp := c.Path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(ds.Header); err != nil {
		_ = f.Close()
		return fmt.Errorf("write header: %w", err)
	}
	if err := w.WriteAll(ds.Records); err != nil {
		_ = f.Close()
		return fmt.Errorf("write records: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, c.Path)
}

func (c Cache) Load() (domain.Dataset, error) {
	f, err := os.Open(c.Path)
	if err != nil {
		return domain.Dataset{}, err
	}
	defer f.Close()

	r := csv.NewReader(stripUTF8BOM(bufio.NewReader(f)))
	r.FieldsPerRecord = 0
	rows, err := r.ReadAll()
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("read %s: %w", c.Path, err)
	}
	if len(rows) == 0 {
		return domain.Dataset{}, fmt.Errorf("read %s: missing header", c.Path)
	}
	return domain.Dataset{Header: rows[0], Records: rows[1:]}, nil
}
