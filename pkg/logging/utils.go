/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: utils.go
Description: Log management utilities for the Akaylee Instrument pass.
Provides size-based rotation, optional gzip compression of rotated files,
and cleanup of old log files beyond the retention limit.
*/

package logging

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// logFilePattern matches the log files this tool writes
const logFilePattern = "akaylee-instrument_*.log"

// LogManager provides rotation, compression, and cleanup of log files
type LogManager struct {
	logDir   string
	maxFiles int
	maxSize  int64
	compress bool
}

// NewLogManager creates a new log manager
func NewLogManager(logDir string, maxFiles int, maxSize int64, compress bool) *LogManager {
	return &LogManager{
		logDir:   logDir,
		maxFiles: maxFiles,
		maxSize:  maxSize,
		compress: compress,
	}
}

// RotateLogs rotates log files that exceed the size limit
func (lm *LogManager) RotateLogs() error {
	files, err := filepath.Glob(filepath.Join(lm.logDir, logFilePattern))
	if err != nil {
		return fmt.Errorf("failed to glob log files: %w", err)
	}

	for _, file := range files {
		if err := lm.rotateFile(file); err != nil {
			return fmt.Errorf("failed to rotate file %s: %w", file, err)
		}
	}

	return nil
}

// rotateFile rotates a single log file when it exceeds the size limit
func (lm *LogManager) rotateFile(path string) error {
	stat, err := os.Stat(path)
	if err != nil {
		return err
	}

	if stat.Size() < lm.maxSize {
		return nil
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	rotatedPath := fmt.Sprintf("%s.%s", path, timestamp)

	if err := os.Rename(path, rotatedPath); err != nil {
		return err
	}

	if lm.compress {
		return lm.compressFile(rotatedPath)
	}
	return nil
}

// compressFile gzips a rotated log file and removes the original
func (lm *LogManager) compressFile(path string) error {
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(path + ".gz")
	if err != nil {
		return err
	}
	defer dst.Close()

	gz := gzip.NewWriter(dst)
	if _, err := io.Copy(gz, src); err != nil {
		gz.Close()
		return err
	}
	if err := gz.Close(); err != nil {
		return err
	}

	return os.Remove(path)
}

// Cleanup removes the oldest log files beyond the retention limit
func (lm *LogManager) Cleanup() error {
	files, err := filepath.Glob(filepath.Join(lm.logDir, logFilePattern))
	if err != nil {
		return fmt.Errorf("failed to glob log files: %w", err)
	}

	if len(files) <= lm.maxFiles {
		return nil
	}

	// Oldest first
	sort.Slice(files, func(i, j int) bool {
		statI, _ := os.Stat(files[i])
		statJ, _ := os.Stat(files[j])
		return statI.ModTime().Before(statJ.ModTime())
	})

	for _, file := range files[:len(files)-lm.maxFiles] {
		os.Remove(file)
	}

	return nil
}
