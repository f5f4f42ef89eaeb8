// Package datauri 解析图片 data URI（data:image/png;base64,....）
package datauri

import (
	"encoding/base64"
	"errors"
	"strings"
)

var (
	ErrMalformed    = errors.New("malformed data uri")
	ErrNotImage     = errors.New("data uri is not an image")
	ErrNotBase64    = errors.New("data uri payload is not base64")
	ErrPayloadEmpty = errors.New("data uri payload is empty")
)

// MaxImageBytes 解码后图片大小上限
const MaxImageBytes = 8 << 20

// Image 解析后的图片
// Data 为原始 base64 字符串（不含前缀），与 MIMEType 一起作为内联图片发送
type Image struct {
	MIMEType string
	Data     string
}

// URI 重新拼装为 data URI
func (i Image) URI() string {
	return "data:" + i.MIMEType + ";base64," + i.Data
}

// Parse 解析并校验图片 data URI
func Parse(uri string) (Image, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(uri), "data:")
	if !ok {
		return Image{}, ErrMalformed
	}

	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return Image{}, ErrMalformed
	}

	mimeType, params, _ := strings.Cut(meta, ";")
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if !strings.HasPrefix(mimeType, "image/") || len(mimeType) == len("image/") {
		return Image{}, ErrNotImage
	}
	if !strings.Contains(params, "base64") {
		return Image{}, ErrNotBase64
	}

	if payload == "" {
		return Image{}, ErrPayloadEmpty
	}
	if base64.StdEncoding.DecodedLen(len(payload)) > MaxImageBytes {
		return Image{}, errors.New("image exceeds size limit")
	}
	if _, err := base64.StdEncoding.DecodeString(payload); err != nil {
		return Image{}, ErrNotBase64
	}

	return Image{MIMEType: mimeType, Data: payload}, nil
}
