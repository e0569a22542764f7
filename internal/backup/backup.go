// file: internal/backup/backup.go
// version: 2.0.0
// guid: 8f9e0a1b-2c3d-4e5f-6a7b-8c9d0e1f2a3b

// Package backup snapshots the SQLite database into compressed archives.
package backup

import (
	"archive/tar"
	"compress/gzip"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/classificacaofinal/classificacao/internal/logging"
)

const (
	archivePrefix = "classificacao_"
	archiveSuffix = ".tar.gz"
	snapshotName  = "classificacao.db"
)

// ErrInvalidArchive is returned when an archive holds no database snapshot.
var ErrInvalidArchive = errors.New("archive does not contain a database snapshot")

// Info describes one backup archive on disk.
type Info struct {
	Filename  string    `json:"filename"`
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	Checksum  string    `json:"checksum"`
	CreatedAt time.Time `json:"created_at"`
}

// Config holds backup configuration
type Config struct {
	Dir              string
	MaxBackups       int
	CompressionLevel int
}

// DefaultConfig returns default backup configuration
func DefaultConfig() Config {
	return Config{
		Dir:              "backups",
		MaxBackups:       10,
		CompressionLevel: gzip.BestCompression,
	}
}

// Create writes a consistent snapshot of db into a new archive under cfg.Dir
// and prunes archives beyond cfg.MaxBackups.
func Create(db *sql.DB, cfg Config) (*Info, error) {
	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	tmpDir, err := os.MkdirTemp(cfg.Dir, ".snapshot-")
	if err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	// VACUUM INTO produces a transactionally consistent copy while the server keeps running.
	snapshot := filepath.Join(tmpDir, snapshotName)
	if _, err := db.Exec("VACUUM INTO ?", snapshot); err != nil {
		return nil, fmt.Errorf("failed to snapshot database: %w", err)
	}

	now := time.Now()
	filename := fmt.Sprintf("%s%s%s", archivePrefix, now.Format("20060102_150405.000000000"), archiveSuffix)
	path := filepath.Join(cfg.Dir, filename)
	if err := writeArchive(path, snapshot, cfg.CompressionLevel); err != nil {
		os.Remove(path)
		return nil, err
	}

	fileInfo, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat backup file: %w", err)
	}
	checksum, err := fileChecksum(path)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate checksum: %w", err)
	}

	if cfg.MaxBackups > 0 {
		if err := prune(cfg.Dir, cfg.MaxBackups); err != nil {
			logging.Log.WithError(err).Warn("failed to prune old backups")
		}
	}

	return &Info{
		Filename:  filename,
		Path:      path,
		Size:      fileInfo.Size(),
		Checksum:  checksum,
		CreatedAt: now,
	}, nil
}

func writeArchive(path, snapshot string, level int) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create backup file: %w", err)
	}
	defer out.Close()

	gz, err := gzip.NewWriterLevel(out, level)
	if err != nil {
		return fmt.Errorf("failed to create gzip writer: %w", err)
	}
	tw := tar.NewWriter(gz)

	info, err := os.Stat(snapshot)
	if err != nil {
		return fmt.Errorf("failed to stat snapshot: %w", err)
	}
	header, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	header.Name = snapshotName
	if err := tw.WriteHeader(header); err != nil {
		return err
	}

	in, err := os.Open(snapshot)
	if err != nil {
		return err
	}
	defer in.Close()
	if _, err := io.Copy(tw, in); err != nil {
		return fmt.Errorf("failed to archive snapshot: %w", err)
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("failed to close tar writer: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("failed to close gzip writer: %w", err)
	}
	return out.Close()
}

// List returns the archives in dir, newest first. A missing dir yields no archives.
func List(dir string) ([]Info, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Info{}, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := make([]Info, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, archivePrefix) || !strings.HasSuffix(name, archiveSuffix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		path := filepath.Join(dir, name)
		checksum, _ := fileChecksum(path)
		backups = append(backups, Info{
			Filename:  name,
			Path:      path,
			Size:      info.Size(),
			Checksum:  checksum,
			CreatedAt: info.ModTime(),
		})
	}

	// Filenames embed the timestamp, so they sort chronologically.
	sort.Slice(backups, func(i, j int) bool { return backups[i].Filename > backups[j].Filename })
	return backups, nil
}

// Restore extracts the snapshot in archivePath to targetPath. The server must
// not hold targetPath open.
func Restore(archivePath, targetPath string) error {
	in, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open backup: %w", err)
	}
	defer in.Close()

	gz, err := gzip.NewReader(in)
	if err != nil {
		return fmt.Errorf("failed to read backup: %w", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		header, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return ErrInvalidArchive
		}
		if err != nil {
			return fmt.Errorf("failed to read backup: %w", err)
		}
		if header.Name != snapshotName {
			continue
		}
		return writeFileAtomic(targetPath, tr)
	}
}

func writeFileAtomic(targetPath string, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(targetPath), 0755); err != nil {
		return err
	}
	tmp := targetPath + ".restore"
	out, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create restore file: %w", err)
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to write restore file: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, targetPath)
}

func fileChecksum(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}

// prune removes the oldest archives beyond keep.
func prune(dir string, keep int) error {
	backups, err := List(dir)
	if err != nil {
		return err
	}
	for _, b := range backups[min(keep, len(backups)):] {
		if err := os.Remove(b.Path); err != nil {
			logging.Log.WithError(err).Warnf("failed to delete old backup %s", b.Filename)
		}
	}
	return nil
}
