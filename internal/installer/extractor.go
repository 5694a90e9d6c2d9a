package installer

import (
	"archive/tar"
	"archive/zip"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/xi2/xz"

	"github.com/venueforge/venuekit/pkg/types"
)

// unpack routes the downloaded payload to the right extraction routine
// based on the artifact format, inferring the format from the URL suffix
// when the manifest leaves it empty.
func unpack(payload string, tool types.Tool, dest string) error {
	format := tool.Artifact.Format
	if format == "" {
		format = inferFormat(tool.Artifact.URL)
	}

	switch format {
	case types.FormatBinary:
		return installBinary(payload, dest, tool.Entry)
	case types.FormatZip:
		return extractZip(payload, dest)
	case types.FormatTarGz:
		return extractTarball(payload, dest, types.FormatTarGz)
	case types.FormatTarBz2:
		return extractTarball(payload, dest, types.FormatTarBz2)
	case types.FormatTarXz:
		return extractTarball(payload, dest, types.FormatTarXz)
	case types.Format7z:
		return extract7z(payload, dest)
	default:
		return fmt.Errorf("%w: %s has unknown artifact format %q", types.ErrToolInvalid, tool.Name, format)
	}
}

// inferFormat guesses the artifact format from a URL suffix, defaulting
// to a plain binary payload.
func inferFormat(url string) string {
	switch {
	case strings.HasSuffix(url, ".zip"):
		return types.FormatZip
	case strings.HasSuffix(url, ".tar.gz"), strings.HasSuffix(url, ".tgz"):
		return types.FormatTarGz
	case strings.HasSuffix(url, ".tar.bz2"):
		return types.FormatTarBz2
	case strings.HasSuffix(url, ".tar.xz"):
		return types.FormatTarXz
	case strings.HasSuffix(url, ".7z"):
		return types.Format7z
	default:
		return types.FormatBinary
	}
}

// installBinary copies a single-file payload to the entry path under dest.
func installBinary(payload, dest, entry string) error {
	target := filepath.Join(dest, filepath.FromSlash(entry))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("creating entry dir: %w", err)
	}

	src, err := os.Open(payload)
	if err != nil {
		return fmt.Errorf("opening payload: %w", err)
	}
	defer src.Close()

	dst, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o755)
	if err != nil {
		return fmt.Errorf("creating entry file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("copying payload: %w", err)
	}
	return nil
}

// securePath joins name onto dest, rejecting entries that would escape
// the destination directory.
func securePath(dest, name string) (string, error) {
	name = filepath.FromSlash(name)
	if !filepath.IsLocal(name) {
		return "", fmt.Errorf("archive entry %q escapes destination", name)
	}
	return filepath.Join(dest, name), nil
}

// extractZip extracts a zip archive into dest.
func extractZip(payload, dest string) error {
	r, err := zip.OpenReader(payload)
	if err != nil {
		return fmt.Errorf("opening zip: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		target, err := securePath(dest, f.Name)
		if err != nil {
			return err
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("creating dir %s: %w", f.Name, err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("creating parent dir for %s: %w", f.Name, err)
		}

		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("opening zip entry %s: %w", f.Name, err)
		}
		if err := writeEntry(target, rc, f.Mode()); err != nil {
			rc.Close()
			return fmt.Errorf("extracting %s: %w", f.Name, err)
		}
		rc.Close()
	}
	return nil
}

// extractTarball extracts a compressed tar archive into dest. The format
// argument selects the decompressor.
func extractTarball(payload, dest, format string) error {
	f, err := os.Open(payload)
	if err != nil {
		return fmt.Errorf("opening tarball: %w", err)
	}
	defer f.Close()

	var reader io.Reader
	switch format {
	case types.FormatTarGz:
		gz, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("opening gzip stream: %w", err)
		}
		defer gz.Close()
		reader = gz
	case types.FormatTarBz2:
		reader = bzip2.NewReader(f)
	case types.FormatTarXz:
		xzr, err := xz.NewReader(f, 0)
		if err != nil {
			return fmt.Errorf("opening xz stream: %w", err)
		}
		reader = xzr
	default:
		return fmt.Errorf("not a tarball format: %q", format)
	}

	tr := tar.NewReader(reader)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading tar: %w", err)
		}

		target, err := securePath(dest, hdr.Name)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("creating dir %s: %w", hdr.Name, err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("creating parent dir for %s: %w", hdr.Name, err)
			}
			if err := writeEntry(target, tr, hdr.FileInfo().Mode()); err != nil {
				return fmt.Errorf("extracting %s: %w", hdr.Name, err)
			}
		default:
			// Symlinks and specials are skipped; tool artifacts are
			// plain files and directories.
		}
	}
}

// extract7z extracts a 7z archive into dest.
func extract7z(payload, dest string) error {
	r, err := sevenzip.OpenReader(payload)
	if err != nil {
		return fmt.Errorf("opening 7z: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		target, err := securePath(dest, f.Name)
		if err != nil {
			return err
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("creating dir %s: %w", f.Name, err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("creating parent dir for %s: %w", f.Name, err)
		}

		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("opening 7z entry %s: %w", f.Name, err)
		}
		if err := writeEntry(target, rc, f.Mode()); err != nil {
			rc.Close()
			return fmt.Errorf("extracting %s: %w", f.Name, err)
		}
		rc.Close()
	}
	return nil
}

// writeEntry writes one archive entry to disk with the given mode.
func writeEntry(target string, r io.Reader, mode os.FileMode) error {
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode.Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
