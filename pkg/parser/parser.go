package parser

import (
	"context"
	"fmt"
	"io"
	"os"
)

// FileSource implements LineSource for reading a list of files in order.
// Line numbers restart at 1 for each file.
type FileSource struct {
	files []string

	currentFile   *os.File
	currentReader *ReaderSource
	fileIndex     int
}

// NewFileSource creates a LineSource that reads the given files one after another.
func NewFileSource(files []string) *FileSource {
	return &FileSource{
		files:     files,
		fileIndex: -1,
	}
}

// Next returns the next line across all files.
// Returns io.EOF when all files have been exhausted.
func (s *FileSource) Next(ctx context.Context) (*LogLine, error) {
	for {
		if s.currentReader == nil {
			if err := s.openNextFile(); err != nil {
				return nil, err
			}
		}

		line, err := s.currentReader.Next(ctx)
		if err == nil {
			return line, nil
		}
		if err != io.EOF {
			return nil, err
		}

		// Current file exhausted, try next
		if err := s.closeCurrentFile(); err != nil {
			return nil, err
		}
	}
}

// Close releases resources.
func (s *FileSource) Close() error {
	return s.closeCurrentFile()
}

func (s *FileSource) openNextFile() error {
	s.fileIndex++
	if s.fileIndex >= len(s.files) {
		return io.EOF
	}

	path := s.files[s.fileIndex]
	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return fmt.Errorf("opening input file %s: %w", path, err)
	}

	s.currentFile = f
	s.currentReader = NewReaderSource(f, path)
	return nil
}

func (s *FileSource) closeCurrentFile() error {
	s.currentReader = nil
	if s.currentFile != nil {
		err := s.currentFile.Close()
		s.currentFile = nil
		if err != nil {
			return fmt.Errorf("closing input file: %w", err)
		}
	}
	return nil
}
