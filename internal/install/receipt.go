package install

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// Prefix layout:
//
//	prefix/
//	  .depend.json   # receipts: package name → last successful install
//	  src/           # working tree of the last installed package
//	  bin/           # artifacts
const receiptFile = ".depend.json"

// Receipt records a successful install.
type Receipt struct {
	Version     string    `json:"version"`
	Ref         string    `json:"ref"`
	Hash        string    `json:"hash"`
	InstallTime time.Time `json:"install_time"`
}

type receipts struct {
	Installed map[string]*Receipt `json:"installed"`
}

func (r *receipts) set(pkg string, rc *Receipt) {
	if r.Installed == nil {
		r.Installed = make(map[string]*Receipt)
	}
	r.Installed[pkg] = rc
}

// Installed returns the receipts recorded under prefix. A prefix without
// receipts yields an empty map.
func Installed(prefix string) (map[string]*Receipt, error) {
	r, err := loadReceipts(prefix)
	if err != nil {
		return nil, err
	}
	if r.Installed == nil {
		return map[string]*Receipt{}, nil
	}
	return r.Installed, nil
}

func loadReceipts(prefix string) (*receipts, error) {
	data, err := os.ReadFile(filepath.Join(prefix, receiptFile))
	if errors.Is(err, fs.ErrNotExist) {
		return &receipts{}, nil
	}
	if err != nil {
		return nil, err
	}
	var r receipts
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func saveReceipts(prefix string, r *receipts) error {
	if err := os.MkdirAll(prefix, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(prefix, receiptFile), data, 0o644)
}
