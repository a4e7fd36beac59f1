package handlers

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var allowImageExtensions = []string{".jpg", ".jpeg", ".png"}

func isValidImageExtensions(file *multipart.FileHeader) bool {
	fileExt := strings.ToLower(filepath.Ext(file.Filename))
	for _, allowExt := range allowImageExtensions {
		if fileExt == allowExt {
			return true
		}
	}
	return false
}

func makeUniqueFileName(file *multipart.FileHeader) string {
	name := filepath.Base(file.Filename)
	fileExt := filepath.Ext(name)
	// commas would split the name apart in the joined img_url field
	fileBase := strings.ReplaceAll(strings.TrimSuffix(name, fileExt), imageRefSeparator, "_")
	return fmt.Sprintf("%s_%s%s", fileBase, uuid.NewString(), strings.ToLower(fileExt))
}

// saveImages writes files into uploadsDir and returns the stored names in upload order.
// Nothing is left on disk when an error is returned.
func saveImages(c *gin.Context, uploadsDir string, files []*multipart.FileHeader) ([]string, error) {
	if err := os.MkdirAll(uploadsDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create uploads dir")
	}

	names := make([]string, 0, len(files))
	for _, file := range files {
		imageName := makeUniqueFileName(file)
		if err := c.SaveUploadedFile(file, filepath.Join(uploadsDir, imageName)); err != nil {
			removeImages(uploadsDir, names)
			return nil, errors.Wrapf(err, "save %s", file.Filename)
		}
		names = append(names, imageName)
	}
	return names, nil
}

func removeImages(uploadsDir string, names []string) {
	for _, name := range names {
		if err := os.Remove(filepath.Join(uploadsDir, name)); err != nil && !os.IsNotExist(err) {
			zap.L().Warn("failed to remove uploaded image", zap.String("name", name), zap.Error(err))
		}
	}
}
