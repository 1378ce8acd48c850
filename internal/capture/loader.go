// internal/capture/loader.go
// Still image loading for the looped still-image source
package capture

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"gocv.io/x/gocv"
)

var supportedImageFormats = []string{".jpg", ".jpeg", ".png", ".tiff", ".tif", ".bmp"}

// ImageLoader decodes still images from a filesystem.
type ImageLoader struct {
	fs     afero.Fs
	logger logrus.FieldLogger
}

func NewImageLoader(fs afero.Fs, logger logrus.FieldLogger) *ImageLoader {
	return &ImageLoader{
		fs:     fs,
		logger: logger,
	}
}

// LoadImage reads and decodes path as a BGR image.
func (il *ImageLoader) LoadImage(path string) (gocv.Mat, error) {
	il.logger.WithField("filepath", path).Debug("Loading image")

	if !IsSupportedImageFormat(path) {
		return gocv.NewMat(), fmt.Errorf("unsupported image format: %s", path)
	}

	data, err := afero.ReadFile(il.fs, path)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("read image: %w", err)
	}

	mat, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("decode image %s: %w", path, err)
	}
	if mat.Empty() {
		mat.Close()
		return gocv.NewMat(), fmt.Errorf("failed to load image: %s", path)
	}

	il.logger.WithFields(logrus.Fields{
		"filepath": path,
		"width":    mat.Cols(),
		"height":   mat.Rows(),
		"channels": mat.Channels(),
	}).Info("Image loaded successfully")

	return mat, nil
}

// IsSupportedImageFormat reports whether path has a still image extension.
func IsSupportedImageFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range supportedImageFormats {
		if ext == format {
			return true
		}
	}
	return false
}
