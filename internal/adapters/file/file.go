package file

import (
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog/log"
	_ "golang.org/x/image/webp"
)

// Loader decodes images from local paths or http(s) URLs. Failures are logged at debug level only, the caller
// reports them to the operator.
type Loader struct {
	client     *http.Client
	timeout    time.Duration
	autoOrient bool
}

func NewLoader(timeout time.Duration, autoOrient bool) *Loader {
	return &Loader{client: &http.Client{}, timeout: timeout, autoOrient: autoOrient}
}

func (l *Loader) Open(ctx context.Context, path string) (image.Image, error) {
	var r io.ReadCloser

	if IsRemote(path) {
		if l.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, l.timeout)
			defer cancel()
		}

		body, err := l.Fetch(ctx, path)
		if err != nil {
			return nil, err
		}
		r = body
	} else {
		f, err := os.Open(filepath.Clean(path))
		if err != nil {
			err = fmt.Errorf("error opening image %w", err)
			log.Debug().Err(err).Str("path", path).Send()
			return nil, err
		}
		r = f
	}
	defer r.Close()

	img, err := imaging.Decode(r, imaging.AutoOrientation(l.autoOrient))
	if err != nil {
		err = fmt.Errorf("error decoding image %w", err)
		log.Debug().Err(err).Str("path", path).Send()
		return nil, err
	}

	return img, nil
}

// IsRemote reports whether path is an http(s) URL rather than a filesystem path.
func IsRemote(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// Fetch requests url and returns the response body for streaming. The caller must close it.
func (l *Loader) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		err = fmt.Errorf("error creating request %w", err)
		log.Debug().Err(err).Str("url", url).Send()
		return nil, err
	}

	res, err := l.client.Do(req)
	if err != nil {
		err = fmt.Errorf("error executing request %w", err)
		log.Debug().Err(err).Str("url", url).Send()
		return nil, err
	}

	if res.StatusCode != http.StatusOK {
		res.Body.Close()
		err = fmt.Errorf("unexpected status code on download: %d", res.StatusCode)
		log.Debug().Err(err).Str("url", url).Send()
		return nil, err
	}

	log.Debug().Str("url", url).Int64("contentLength", res.ContentLength).Msg("streaming download")

	return res.Body, nil
}

type EncodeFunc func(w io.Writer, img image.Image) error

// Writer stores encoded images, replacing the destination only once encoding succeeded. An existing destination
// keeps its permission bits and symlinks are written through to their target.
type Writer struct {
	encode EncodeFunc
}

func NewWriter(encode EncodeFunc) *Writer {
	return &Writer{encode: encode}
}

func (w *Writer) Save(path string, img image.Image) error {
	target := resolveTarget(path)

	f, err := CreateTempFile(filepath.Dir(target), filepath.Ext(target))
	if err != nil {
		return err
	}

	fail := func(msg string, err error) error {
		discardTemp(f)
		err = fmt.Errorf("%s %w", msg, err)
		log.Debug().Err(err).Str("path", path).Send()
		return err
	}

	if err := w.encode(f, img); err != nil {
		return fail("error encoding image", err)
	}

	if fi, err := os.Stat(target); err == nil {
		if err := f.Chmod(fi.Mode().Perm()); err != nil {
			return fail("error copying file mode", err)
		}
	}

	if err := f.Close(); err != nil {
		return fail("error closing temp file", err)
	}

	if err := os.Rename(f.Name(), target); err != nil {
		return fail("error replacing output file", err)
	}

	log.Debug().Str("path", path).Str("target", target).Msg("wrote file")

	return nil
}

// resolveTarget follows a symlink at path. Dangling links and plain paths are returned unchanged.
func resolveTarget(path string) string {
	fi, err := os.Lstat(path)
	if err != nil || fi.Mode()&os.ModeSymlink == 0 {
		return path
	}

	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		log.Debug().Err(err).Str("path", path).Msg("dangling symlink, replacing it")
		return path
	}

	return target
}

// CreateTempFile creates a uniquely named hidden file in dir, so it can later be renamed over a sibling path.
func CreateTempFile(dir string, extension string) (*os.File, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}

	path := filepath.Join(dir, fmt.Sprintf(".%s%s.tmp", id.String(), extension))

	log.Debug().Str("path", path).Msg("creating temp file")

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		err = fmt.Errorf("error creating temp file %w", err)
		log.Debug().Err(err).Send()
		return nil, err
	}

	return f, nil
}

// discardTemp closes and deletes a temp file that will not be renamed into place.
func discardTemp(f *os.File) {
	_ = f.Close()

	if err := os.Remove(f.Name()); err != nil && !os.IsNotExist(err) {
		log.Warn().Str("path", f.Name()).Err(err).Msg("could not clean up temp file")
		return
	}
	log.Debug().Str("path", f.Name()).Msg("discarded temp file")
}
