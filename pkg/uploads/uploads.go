// Package uploads stores image files uploaded by clients.
package uploads

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	xe "github.com/fishmap/fishmap/pkg/errors"
	"github.com/google/uuid"
)

var (
	ErrUnsupportedImage = errors.New("unsupported image format")
	ErrTooLarge         = errors.New("file too large")
)

// image formats accepted, by extension.
var formats = map[string]string{
	".jpeg": "image/jpeg",
	".jpg":  "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".bmp":  "image/bmp",
	".heic": "image/heic",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".mpo":  "image/mpo",
	".pfm":  "image/x-portable-floatmap",
	".dng":  "image/x-adobe-dng",
}

var subtypes = []string{
	"jpeg", "jpg", "png", "webp", "bmp", "heic", "tif", "tiff", "mpo", "pfm", "dng",
}

// Image is a stored upload.
type Image struct {
	// Name is the file name in the upload directory.
	Name string

	// Path is the path of the file, joined with the upload directory.
	Path string

	// Original is the file name given by the client.
	Original string

	Ext      string
	MimeType string
	Size     int64
}

type Store struct {
	dir        string
	archiveDir string
	maxBytes   int64
	now        func() time.Time
}

type Option func(*Store) *Store

// WithClock replaces the clock used to name files.
func WithClock(now func() time.Time) Option {
	return func(s *Store) *Store {
		s.now = now
		return s
	}
}

// New creates a Store. Directories are created if missing.
func New(dir string, archiveDir string, maxBytes int64, options ...Option) (*Store, error) {
	for _, d := range []string{dir, archiveDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, xe.Wrap(err)
		}
	}
	s := &Store{dir: dir, archiveDir: archiveDir, maxBytes: maxBytes, now: time.Now}
	for _, opt := range options {
		s = opt(s)
	}
	return s, nil
}

func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) MaxBytes() int64 {
	return s.maxBytes
}

// Check validates the file name and MIME type of an upload.
//
// # Returns
//
// - string: extension in lower case
//
// - string: MIME type of the image
//
// - error: ErrUnsupportedImage
func Check(filename string, mimeType string) (string, string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	canonical, ok := formats[ext]
	if !ok {
		return "", "", fmt.Errorf("%w: extension %q", ErrUnsupportedImage, ext)
	}

	mt, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return "", "", fmt.Errorf("%w: content type %q", ErrUnsupportedImage, mimeType)
	}
	sub, ok := strings.CutPrefix(mt, "image/")
	if !ok {
		return "", "", fmt.Errorf("%w: content type %q", ErrUnsupportedImage, mt)
	}
	for _, s := range subtypes {
		if strings.Contains(sub, s) {
			return ext, canonical, nil
		}
	}
	return "", "", fmt.Errorf("%w: content type %q", ErrUnsupportedImage, mt)
}

// Save stores a multipart file with a unique name `<unix ms>-<uuid><ext>`.
func (s *Store) Save(fh *multipart.FileHeader) (Image, error) {
	if s.maxBytes < fh.Size {
		return Image{}, fmt.Errorf("%w: %d bytes (max: %d)", ErrTooLarge, fh.Size, s.maxBytes)
	}
	ext, mimeType, err := Check(fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		return Image{}, err
	}

	src, err := fh.Open()
	if err != nil {
		return Image{}, xe.Wrap(err)
	}
	defer src.Close()

	name := fmt.Sprintf("%d-%s%s", s.now().UnixMilli(), uuid.NewString(), ext)
	path := filepath.Join(s.dir, name)
	size, err := s.write(path, src)
	if err != nil {
		return Image{}, err
	}

	return Image{
		Name:     name,
		Path:     path,
		Original: fh.Filename,
		Ext:      ext,
		MimeType: mimeType,
		Size:     size,
	}, nil
}

func (s *Store) write(path string, src io.Reader) (int64, error) {
	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return 0, xe.Wrap(err)
	}
	size, err := io.Copy(dst, io.LimitReader(src, s.maxBytes+1))
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err == nil && s.maxBytes < size {
		err = fmt.Errorf("%w: over %d bytes", ErrTooLarge, s.maxBytes)
	}
	if err != nil {
		os.Remove(path)
		return 0, err
	}
	return size, nil
}

// Archive copies the image into the archive directory as `<prefix><unix ms>-<short uuid><ext>`.
//
// It returns the path of the copy.
func (s *Store) Archive(img Image, prefix string) (string, error) {
	src, err := os.Open(img.Path)
	if err != nil {
		return "", xe.Wrap(err)
	}
	defer src.Close()

	path := filepath.Join(s.archiveDir, fmt.Sprintf("%s%d-%s%s", prefix, s.now().UnixMilli(), uuid.NewString()[:8], img.Ext))
	if _, err := s.write(path, src); err != nil {
		return "", err
	}
	return filepath.ToSlash(path), nil
}

// Remove deletes the stored image. Missing files are ignored.
func (s *Store) Remove(img Image) error {
	if err := os.Remove(img.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return xe.Wrap(err)
	}
	return nil
}

// URL of the image served at `<baseURL>/uploads/`.
func URL(baseURL string, img Image) string {
	return strings.TrimSuffix(baseURL, "/") + "/uploads/" + img.Name
}

// DataURI encodes the image as `data:<mime>;base64,...`.
func DataURI(img Image) (string, error) {
	content, err := os.ReadFile(img.Path)
	if err != nil {
		return "", xe.Wrap(err)
	}
	return "data:" + img.MimeType + ";base64," + base64.StdEncoding.EncodeToString(content), nil
}
