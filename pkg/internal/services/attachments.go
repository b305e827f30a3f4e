package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	AttachmentTypeImage = "image"
	AttachmentTypeVideo = "video"
)

var attachmentExtensions = map[string]string{
	".png":  AttachmentTypeImage,
	".jpg":  AttachmentTypeImage,
	".jpeg": AttachmentTypeImage,
	".gif":  AttachmentTypeImage,
	".mp4":  AttachmentTypeVideo,
	".webm": AttachmentTypeVideo,
	".mov":  AttachmentTypeVideo,
	".ogg":  AttachmentTypeVideo,
}

func GetAttachmentType(filename string) (string, bool) {
	kind, ok := attachmentExtensions[strings.ToLower(filepath.Ext(filename))]
	return kind, ok
}

func GetUploadPath() string {
	path := viper.GetString("uploads.path")
	if len(path) == 0 {
		path = "uploads"
	}
	return path
}

// SaveAttachment stores the uploaded file under a random name and returns that name.
func SaveAttachment(file *multipart.FileHeader) (string, string, error) {
	kind, ok := GetAttachmentType(file.Filename)
	if !ok {
		return "", "", fmt.Errorf("%w: unsupported file type %s", ErrInvalidAttachment, filepath.Ext(file.Filename))
	}
	if limit := viper.GetInt64("uploads.max_size"); limit > 0 && file.Size > limit {
		return "", "", fmt.Errorf("%w: file is larger than %d bytes", ErrInvalidAttachment, limit)
	}

	name := uuid.NewString() + strings.ToLower(filepath.Ext(file.Filename))
	if err := os.MkdirAll(GetUploadPath(), 0755); err != nil {
		return "", "", fmt.Errorf("unable to prepare upload directory: %v", err)
	}

	src, err := file.Open()
	if err != nil {
		return "", "", err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(GetUploadPath(), name))
	if err != nil {
		return "", "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", "", fmt.Errorf("unable to save attachment: %v", err)
	}

	log.Debug().Str("name", name).Str("type", kind).Int64("size", file.Size).Msg("Saved an attachment.")
	return name, kind, nil
}
