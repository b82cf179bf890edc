package dataset

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Export loads each dataset with src and writes it as <name>.parquet under
// dir. It returns the paths written, in the order of datasets.
func Export(src Loader, dir string, datasets []Dataset, logger log.Logger) ([]string, error) {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	paths := make([]string, 0, len(datasets))
	for _, d := range datasets {
		t, err := src.Load(d)
		if err != nil {
			return paths, fmt.Errorf("failed to load %s: %w", d, err)
		}

		path := filepath.Join(dir, d.Name()+".parquet")
		if err := writeDataset(d, t, path); err != nil {
			return paths, fmt.Errorf("failed to export %s to %s: %w", d, path, err)
		}

		level.Info(logger).Log("msg", "exported dataset", "dataset", d, "path", path, "rows", t.Len())
		paths = append(paths, path)
	}
	return paths, nil
}
