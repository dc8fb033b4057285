package report

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pkordes/diplomatic-drive/internal/domain"
)

// FileTemplate loads the report template from disk on every call, so an
// updated template is picked up without a restart.
type FileTemplate struct {
	Path string
}

// Load returns the template bytes, or an error wrapping
// domain.ErrTemplateMissing when the file does not exist.
func (t FileTemplate) Load() ([]byte, error) {
	b, err := os.ReadFile(t.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("report.FileTemplate.Load: %s: %w", t.Path, domain.ErrTemplateMissing)
	}
	if err != nil {
		return nil, fmt.Errorf("report.FileTemplate.Load: %w", err)
	}
	return b, nil
}
