package mangabaka

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"

	"github.com/comictalker/mangabaka/internal/errors"
)

// databasePath is the provider endpoint serving its full series dump.
const databasePath = "database/series.sqlite.tar.gz"

// DownloadDatabase streams the provider's series dump into destDir, unpacks
// it, and verifies the result opens as a SQLite database. Returns the path
// of the extracted database file.
func (t *Talker) DownloadDatabase(ctx context.Context, destDir string) (string, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create destination directory: %w", err)
	}

	resp, err := t.client.download(ctx, databasePath)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	archivePath := filepath.Join(destDir, "series.sqlite.tar.gz")
	out, err := os.Create(archivePath)
	if err != nil {
		return "", fmt.Errorf("failed to create archive file: %w", err)
	}

	bar := progressbar.DefaultBytes(resp.ContentLength, "downloading series database")
	_, copyErr := io.Copy(io.MultiWriter(out, bar), resp.Body)
	closeErr := out.Close()
	if copyErr != nil {
		return "", fmt.Errorf("failed to download series database: %w", copyErr)
	}
	if closeErr != nil {
		return "", fmt.Errorf("failed to write archive: %w", closeErr)
	}

	dbPath, err := extractTarGz(archivePath, destDir)
	if err != nil {
		return "", err
	}

	if err := verifySQLite(dbPath); err != nil {
		return "", err
	}

	slog.Info("Series database downloaded", "path", dbPath)
	return dbPath, nil
}

// extractTarGz unpacks a gzipped tarball into destDir, refusing entries that
// would land outside it. Returns the path of the extracted .sqlite file.
func extractTarGz(archivePath, destDir string) (string, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return "", fmt.Errorf("failed to open archive: %w", err)
	}
	defer func() { _ = f.Close() }()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return "", errors.NewParseError("archive", "not a gzip archive: "+err.Error())
	}
	defer func() { _ = gz.Close() }()

	var dbPath string
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", errors.NewParseError("archive", "corrupt tar archive: "+err.Error())
		}

		target, err := securePath(destDir, hdr.Name)
		if err != nil {
			return "", err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return "", fmt.Errorf("failed to create directory: %w", err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return "", fmt.Errorf("failed to create directory: %w", err)
			}
			if err := writeArchiveFile(target, tr); err != nil {
				return "", err
			}
			if strings.HasSuffix(hdr.Name, ".sqlite") {
				dbPath = target
			}
		default:
			// The dump holds plain files; anything else is suspect.
			slog.Warn("Skipping unexpected archive entry", "name", hdr.Name, "type", hdr.Typeflag)
		}
	}

	if dbPath == "" {
		return "", errors.NewParseError("archive", "archive contains no .sqlite database")
	}
	return dbPath, nil
}

func writeArchiveFile(target string, r io.Reader) error {
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := io.Copy(out, r); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to extract %s: %w", target, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	return nil
}

// securePath joins name under destDir, rejecting absolute names and any
// traversal outside destDir.
func securePath(destDir, name string) (string, error) {
	if filepath.IsAbs(name) {
		return "", errors.NewParseError("archive", "archive entry has absolute path: "+name)
	}
	target := filepath.Join(destDir, name)
	rel, err := filepath.Rel(destDir, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return "", errors.NewParseError("archive", "archive entry escapes destination: "+name)
	}
	return target, nil
}

// verifySQLite confirms the extracted file really is a SQLite database
// before handing the path back.
func verifySQLite(path string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return errors.NewParseError("database", "cannot open extracted database: "+err.Error())
	}
	defer func() { _ = db.Close() }()

	var objects int
	if err := db.QueryRow("SELECT count(*) FROM sqlite_master").Scan(&objects); err != nil {
		return errors.NewParseError("database", "extracted file is not a SQLite database: "+err.Error())
	}
	slog.Debug("Series database verified", "path", path, "objects", objects)
	return nil
}
