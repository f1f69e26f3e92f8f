package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	apperrors "hypedump/pkg/errors"
)

// TrackExtension is the extension of every saved track
const TrackExtension = ".mp3"

// pathSeparators are removed from artist and title so a file name is always a
// single path component.
var pathSeparators = strings.NewReplacer("/", "", "\\", "")

// TrackFilename returns "{artist} - {title}.mp3" with slashes removed from
// artist and title. No other character is altered.
func TrackFilename(artist, title string) string {
	return fmt.Sprintf("%s - %s%s",
		pathSeparators.Replace(artist),
		pathSeparators.Replace(title),
		TrackExtension,
	)
}

// Manager handles file storage operations inside one existing directory
type Manager struct {
	outputDir string
}

// NewManager creates a storage manager for outputDir, which must already exist
func NewManager(outputDir string) (*Manager, error) {
	info, err := os.Stat(outputDir)
	if err != nil {
		return nil, apperrors.New(apperrors.ErrorTypeFilesystem,
			fmt.Sprintf("output directory %s is not accessible", outputDir), err)
	}
	if !info.IsDir() {
		return nil, apperrors.New(apperrors.ErrorTypeFilesystem,
			fmt.Sprintf("output path %s is not a directory", outputDir), nil)
	}

	return &Manager{outputDir: outputDir}, nil
}

// Path returns the full path of name inside the output directory
func (m *Manager) Path(name string) string {
	return filepath.Join(m.outputDir, name)
}

// Exists reports whether a file called name is already in the output directory.
// Its content is not inspected.
func (m *Manager) Exists(name string) (bool, error) {
	_, err := os.Stat(m.Path(name))
	switch {
	case err == nil:
		return true, nil
	case os.IsNotExist(err):
		return false, nil
	default:
		return false, apperrors.New(apperrors.ErrorTypeFilesystem,
			fmt.Sprintf("failed to check %s", m.Path(name)), err)
	}
}

// Save writes everything read from r to name, verbatim
func (m *Manager) Save(r io.Reader, name string) error {
	filename := m.Path(name)

	// Create temporary file first
	tempFile := filename + ".tmp"
	out, err := os.OpenFile(tempFile, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return apperrors.New(apperrors.ErrorTypeFilesystem, "failed to create temporary file", err)
	}

	_, err = io.Copy(out, r)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempFile)
		return apperrors.New(apperrors.ErrorTypeFilesystem, fmt.Sprintf("failed to write %s", filename), err)
	}
	if closeErr != nil {
		os.Remove(tempFile)
		return apperrors.New(apperrors.ErrorTypeFilesystem, fmt.Sprintf("failed to close %s", filename), closeErr)
	}

	if err := os.Rename(tempFile, filename); err != nil {
		os.Remove(tempFile)
		return apperrors.New(apperrors.ErrorTypeFilesystem, "failed to rename temporary file", err)
	}

	return nil
}

// GetOutputDir returns the output directory path
func (m *Manager) GetOutputDir() string {
	return m.outputDir
}
