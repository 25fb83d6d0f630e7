package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/StudyBeacon/physics-learn/internal/dto"
	appErrors "github.com/StudyBeacon/physics-learn/pkg/errors"
)

// UploadLimits bounds multipart submissions.
type UploadLimits struct {
	MaxFileSize int64
	MaxImages   int
}

func (l UploadLimits) withDefaults() UploadLimits {
	if l.MaxFileSize <= 0 {
		l.MaxFileSize = 25 << 20
	}
	if l.MaxImages <= 0 {
		l.MaxImages = 10
	}
	return l
}

// singleFile reads the optional file under field. A missing field yields nil.
func singleFile(c *gin.Context, field string, limits UploadLimits) (*dto.FileUpload, error) {
	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid multipart payload")
	}
	file, err := readFile(header, limits.MaxFileSize)
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// multiFiles reads every file under field, at most maxCount of them.
func multiFiles(c *gin.Context, field string, maxCount int, limits UploadLimits) ([]dto.FileUpload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid multipart payload")
	}
	headers := form.File[field]
	if len(headers) > maxCount {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("at most %d %s are allowed", maxCount, field))
	}
	files := make([]dto.FileUpload, 0, len(headers))
	for _, header := range headers {
		file, err := readFile(header, limits.MaxFileSize)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, nil
}

func readFile(header *multipart.FileHeader, maxSize int64) (dto.FileUpload, error) {
	if header.Size > maxSize {
		return dto.FileUpload{}, fileTooLarge(header.Filename, maxSize)
	}
	f, err := header.Open()
	if err != nil {
		return dto.FileUpload{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "unreadable upload")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxSize+1))
	if err != nil {
		return dto.FileUpload{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "unreadable upload")
	}
	if int64(len(data)) > maxSize {
		return dto.FileUpload{}, fileTooLarge(header.Filename, maxSize)
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return dto.FileUpload{Filename: header.Filename, ContentType: contentType, Data: data}, nil
}

func fileTooLarge(name string, maxSize int64) error {
	return appErrors.Clone(appErrors.ErrPayloadTooLarge, fmt.Sprintf("%s exceeds the %d MiB limit", name, maxSize>>20))
}
