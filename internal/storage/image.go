package storage

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"recipe-app/internal/apperr"

	"github.com/gabriel-vasile/mimetype"
)

// MaxImageSize 上傳圖片大小上限
const MaxImageSize = 10 << 20

const invalidImage = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."

var imageTypes = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/gif":  "gif",
}

// DetectImage 驗證內容為可解碼的 png/jpeg/gif，回傳副檔名
func DetectImage(data []byte) (string, error) {
	if len(data) == 0 {
		return "", apperr.Validation("image", "The submitted file is empty.")
	}
	if len(data) > MaxImageSize {
		return "", apperr.Validation("image", "The submitted file is too large.")
	}
	ext, ok := imageTypes[mimetype.Detect(data).String()]
	if !ok {
		return "", apperr.Validation("image", invalidImage)
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return "", apperr.Validation("image", invalidImage)
	}
	return ext, nil
}
