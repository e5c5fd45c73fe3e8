package handlers

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/learning-service/internal/services"
)

const (
	MaxImageSize = 5 << 20

	uploadField   = "file"
	ctxUploadFile = "upload_file"
)

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}

// ImageUpload reads the multipart "file" field, checks its size and sniffed
// type and stores it on the context for the next handler
func ImageUpload(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		// leave room for the multipart envelope around the file
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+1<<20)

		header, err := c.FormFile(uploadField)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				abortTooLarge(c, maxBytes)
				return
			}
			c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
				Message: "file is required",
				Details: err.Error(),
			})
			return
		}
		if header.Size > maxBytes {
			abortTooLarge(c, maxBytes)
			return
		}

		f, err := header.Open()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Message: "cannot open uploaded file"})
			return
		}
		defer f.Close()

		data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Message: "cannot read uploaded file"})
			return
		}
		if int64(len(data)) > maxBytes {
			abortTooLarge(c, maxBytes)
			return
		}
		if len(data) == 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Message: "file is empty"})
			return
		}

		mime := mimetype.Detect(data)
		if !mimetype.EqualsAny(mime.String(), allowedImageTypes...) {
			c.AbortWithStatusJSON(http.StatusUnsupportedMediaType, ErrorResponse{
				Message: "unsupported image type",
				Details: map[string]interface{}{
					"detected": mime.String(),
					"allowed":  allowedImageTypes,
				},
			})
			return
		}

		c.Set(ctxUploadFile, services.UploadedFile{
			Reader:      bytes.NewReader(data),
			Size:        int64(len(data)),
			ContentType: mime.String(),
			Extension:   mime.Extension(),
		})
		c.Next()
	}
}

func abortTooLarge(c *gin.Context, maxBytes int64) {
	c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, ErrorResponse{
		Message: "file is too large",
		Details: map[string]interface{}{"max_bytes": maxBytes},
	})
}

func uploadedFile(c *gin.Context) (services.UploadedFile, bool) {
	v, ok := c.Get(ctxUploadFile)
	if !ok {
		return services.UploadedFile{}, false
	}
	f, ok := v.(services.UploadedFile)
	return f, ok
}
