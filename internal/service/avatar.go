package service

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"strings"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"go-travel-planner/internal/util"
	"go-travel-planner/pkg/apierror"
)

const avatarJPEGQuality = 85

// AvatarProcessor turns an uploaded data URL into a bounded JPEG data URL.
type AvatarProcessor struct {
	maxBytes     int
	maxDimension int
}

func NewAvatarProcessor(maxBytes int, maxDimension int) *AvatarProcessor {
	return &AvatarProcessor{maxBytes: maxBytes, maxDimension: maxDimension}
}

func (p *AvatarProcessor) Normalize(dataURL string) (string, error) {
	header, payload, ok := strings.Cut(strings.TrimSpace(dataURL), ",")
	if !ok || !strings.HasPrefix(header, "data:image/") || !strings.HasSuffix(header, ";base64") {
		return "", apierror.Validation("avatar must be a base64 image data URL", "avatar")
	}

	if base64.StdEncoding.DecodedLen(len(payload)) > p.maxBytes+2 {
		return "", apierror.Validation(fmt.Sprintf("avatar exceeds %d bytes", p.maxBytes), "avatar")
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", apierror.Validation("avatar is not valid base64", "avatar")
	}
	if len(raw) > p.maxBytes {
		return "", apierror.Validation(fmt.Sprintf("avatar exceeds %d bytes", p.maxBytes), "avatar")
	}

	declared := strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
	if !util.IsAvatarMIME(declared) || !util.IsAvatarMIME(util.SniffMIME(raw)) {
		return "", apierror.Validation("avatar image format is not supported", "avatar")
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", apierror.Validation("avatar image format is not supported", "avatar")
	}

	w, h := fitWithin(src.Bounds().Dx(), src.Bounds().Dy(), p.maxDimension)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))

	// JPEG has no alpha channel; flatten onto white.
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: avatarJPEGQuality}); err != nil {
		return "", fmt.Errorf("encode avatar: %w", err)
	}

	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// fitWithin scales (w, h) down to fit a limit x limit box, keeping the
// aspect ratio. Images already inside the box keep their size.
func fitWithin(w, h, limit int) (int, int) {
	if w <= limit && h <= limit {
		return w, h
	}
	if w >= h {
		return limit, max(1, h*limit/w)
	}
	return max(1, w*limit/h), limit
}
