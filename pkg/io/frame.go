package io

import (
	"os"
	"path/filepath"

	"golang.org/x/image/font"

	"github.com/matzehuels/dmdpattern/pkg/dmd"
	"github.com/matzehuels/dmdpattern/pkg/errors"
)

// File name prefixes for the saved artifacts.
const (
	PatternPrefix  = "pattern_"
	TemplatePrefix = "template_"
)

// FramePaths are the files written by SaveFrame.
type FramePaths struct {
	Pattern  string `json:"pattern"`
	Template string `json:"template"`
}

// SaveFrame writes the mirror buffer to dir/pattern_<filename> and the
// labeled real buffer to dir/template_<filename>, creating dir if needed.
// The format follows the extension of filename.
func SaveFrame(dir, filename string, f *dmd.Frame, face font.Face) (FramePaths, error) {
	if err := errors.ValidateFilename(filename); err != nil {
		return FramePaths{}, err
	}
	if _, err := FormatFromPath(filename); err != nil {
		return FramePaths{}, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return FramePaths{}, errors.Wrap(errors.ErrCodeInternal, err, "create %s", dir)
	}

	paths := FramePaths{
		Pattern:  filepath.Join(dir, PatternPrefix+filename),
		Template: filepath.Join(dir, TemplatePrefix+filename),
	}
	if err := ExportImage(f.Mirror(), paths.Pattern); err != nil {
		return FramePaths{}, err
	}
	if err := ExportImage(f.Template(face), paths.Template); err != nil {
		return FramePaths{}, err
	}
	return paths, nil
}
