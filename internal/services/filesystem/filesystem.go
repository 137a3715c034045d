// Package filesystem exposes the directory capabilities the tree renderer
// needs on top of an afero file system.
package filesystem

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/afero"
)

const (
	errorListDirectoryFormat = "list directory %s: %w"
	errorWriteFileFormat     = "write file %s: %w"

	defaultFilePermissions os.FileMode = 0o644
)

// Lister lists and classifies directory entries.
type Lister interface {
	IsDirectory(path string) bool
	ListChildren(path string) ([]string, error)
	SameEntry(firstPath string, secondPath string) bool
}

// Service implements Lister and file writing over an afero.Fs.
type Service struct {
	fileSystem afero.Fs
}

// NewService wraps the provided afero file system.
func NewService(fileSystem afero.Fs) *Service {
	if fileSystem == nil {
		fileSystem = afero.NewOsFs()
	}
	return &Service{fileSystem: fileSystem}
}

// NewOSService returns a Service backed by the operating system file system.
func NewOSService() *Service {
	return NewService(afero.NewOsFs())
}

// IsDirectory reports whether path resolves to a directory. Symbolic links
// are followed; unreadable or dangling paths are not directories.
func (service *Service) IsDirectory(path string) bool {
	fileInformation, statError := service.fileSystem.Stat(path)
	if statError != nil {
		return false
	}
	return fileInformation.IsDir()
}

// ListChildren returns the names of the direct children of path sorted byte-wise.
func (service *Service) ListChildren(path string) ([]string, error) {
	directoryHandle, openError := service.fileSystem.Open(path)
	if openError != nil {
		return nil, fmt.Errorf(errorListDirectoryFormat, path, openError)
	}
	defer directoryHandle.Close()

	childNames, readError := directoryHandle.Readdirnames(-1)
	if readError != nil {
		return nil, fmt.Errorf(errorListDirectoryFormat, path, readError)
	}
	sort.Strings(childNames)
	return childNames, nil
}

// SameEntry reports whether both paths resolve to the same underlying file.
// File systems without device and inode information never report a match.
func (service *Service) SameEntry(firstPath string, secondPath string) bool {
	firstInformation, firstError := service.fileSystem.Stat(firstPath)
	if firstError != nil {
		return false
	}
	secondInformation, secondError := service.fileSystem.Stat(secondPath)
	if secondError != nil {
		return false
	}
	return os.SameFile(firstInformation, secondInformation)
}

// WriteFile creates or truncates path and writes data to it.
func (service *Service) WriteFile(path string, data []byte) error {
	if writeError := afero.WriteFile(service.fileSystem, path, data, defaultFilePermissions); writeError != nil {
		return fmt.Errorf(errorWriteFileFormat, path, writeError)
	}
	return nil
}

var _ Lister = (*Service)(nil)
