package folio

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
)

const (
	maxImageWidth = 960
	jpegQuality   = 80
)

// publishAsset copies src to dst. JPEG and PNG images wider than
// maxImageWidth are scaled down and re-encoded in their original format.
// It reports whether the image was resized.
func publishAsset(src, dst string) (bool, error) {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return false, err
	}
	switch strings.ToLower(filepath.Ext(src)) {
	case ".jpg", ".jpeg", ".png":
		resized, err := resizeImage(src, dst)
		if err != nil {
			return false, err
		}
		if resized {
			return true, nil
		}
	}
	return false, copyFile(src, dst)
}

// resizeImage writes a scaled copy of src to dst when it is wider than
// maxImageWidth. Nothing is written otherwise.
func resizeImage(src, dst string) (bool, error) {
	f, err := os.Open(src)
	if err != nil {
		return false, err
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return false, fmt.Errorf("decode %s: %w", src, err)
	}
	if cfg.Width <= maxImageWidth {
		return false, nil
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return false, err
	}
	img, _, err := image.Decode(f)
	if err != nil {
		return false, fmt.Errorf("decode %s: %w", src, err)
	}

	bounds := img.Bounds()
	newH := bounds.Dy() * maxImageWidth / bounds.Dx()
	scaled := image.NewRGBA(image.Rect(0, 0, maxImageWidth, newH))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, bounds, draw.Over, nil)

	out, err := os.Create(dst)
	if err != nil {
		return false, err
	}
	switch format {
	case "png":
		err = png.Encode(out, scaled)
	default:
		err = jpeg.Encode(out, scaled, &jpeg.Options{Quality: jpegQuality})
	}
	if err != nil {
		out.Close()
		return false, fmt.Errorf("encode %s: %w", dst, err)
	}
	return true, out.Close()
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// copyTree copies every regular file under src into dst, preserving the
// relative layout. A missing src is not an error.
func copyTree(src, dst string) (int, error) {
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return 0, nil
	}
	n := 0
	err := filepath.WalkDir(src, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		n++
		return copyFile(p, target)
	})
	return n, err
}
