package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// csvHeader defines the exported columns and their order.
var csvHeader = []string{"uid", "coldkey", "hotkey"}

// WriteCSV stores the uid and key columns of the given snapshot at path in
// CSV form, one row per miner in snapshot order. The parent directory is
// created if missing, an existing file at path is overwritten.
func WriteCSV(path string, miners []Miner) error {
	err := os.MkdirAll(filepath.Dir(path), 0700)
	if err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}

	w := csv.NewWriter(f)
	w.Write(csvHeader)
	for _, m := range miners {
		w.Write([]string{strconv.Itoa(m.UID), m.Coldkey, m.Hotkey})
	}
	w.Flush()

	if err = w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("write records: %w", err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("close output file: %w", err)
	}

	return nil
}
