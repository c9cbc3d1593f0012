package media

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"strings"
	"time"

	"opsboard/pkg/types"

	"golang.org/x/image/draw"
)

// Size limits are checked before any decode or re-encode work so oversized
// input fails fast.
const (
	MaxImageBytes = 10 << 20
	MaxVideoBytes = 50 << 20

	maxDimension     = 1280
	targetImageBytes = 1 << 20
	startQuality     = 85
	qualityStep      = 10
	minQuality       = 40
)

type Input struct {
	Data        []byte
	MimeType    string
	Caption     string
	SubmittedAt time.Time
}

type Output struct {
	Data     []byte
	Filename string
	Path     string
	MimeType string
}

// Process classifies the input as image or video and applies the pipeline:
// videos pass through byte-identical, images are re-encoded to bounded JPEG.
func Process(in Input) (*Output, error) {
	switch {
	case strings.HasPrefix(in.MimeType, "image/"):
		return processImage(in)
	case strings.HasPrefix(in.MimeType, "video/"):
		return processVideo(in)
	default:
		return nil, types.ErrUnsupportedMedia
	}
}

func processImage(in Input) (*Output, error) {
	if int64(len(in.Data)) > MaxImageBytes {
		return nil, types.ErrImageTooLarge
	}

	src, _, err := image.Decode(bytes.NewReader(in.Data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	src = downscale(src)

	encoded, err := encodeBounded(src)
	if err != nil {
		return nil, err
	}

	filename := buildFilename(in.Caption, in.SubmittedAt, ".jpg")

	return &Output{
		Data:     encoded,
		Filename: filename,
		Path:     buildPath(in.SubmittedAt, filename),
		MimeType: "image/jpeg",
	}, nil
}

func processVideo(in Input) (*Output, error) {
	if int64(len(in.Data)) > MaxVideoBytes {
		return nil, types.ErrVideoTooLarge
	}

	filename := buildFilename(in.Caption, in.SubmittedAt, videoExtension(in.MimeType))

	// No transcoding; the bytes go up as received.
	return &Output{
		Data:     in.Data,
		Filename: filename,
		Path:     buildPath(in.SubmittedAt, filename),
		MimeType: in.MimeType,
	}, nil
}

// downscale fits the image inside maxDimension on its longest side,
// preserving aspect ratio. Smaller images are returned untouched.
func downscale(src image.Image) image.Image {
	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if width <= maxDimension && height <= maxDimension {
		return src
	}

	newWidth, newHeight := maxDimension, maxDimension
	if width > height {
		newHeight = height * maxDimension / width
	} else {
		newWidth = width * maxDimension / height
	}

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	return dst
}

// encodeBounded steps JPEG quality down until the output fits the target
// size or the quality floor is reached.
func encodeBounded(src image.Image) ([]byte, error) {
	var buf bytes.Buffer

	for quality := startQuality; ; quality -= qualityStep {
		buf.Reset()
		if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("failed to encode jpeg: %w", err)
		}

		if buf.Len() <= targetImageBytes || quality-qualityStep < minQuality {
			return buf.Bytes(), nil
		}
	}
}

// buildFilename derives a storage name from the user's caption plus a
// timestamp suffix, so collisions across submissions are practically nil.
func buildFilename(caption string, submittedAt time.Time, extension string) string {
	return fmt.Sprintf("%s_%s%s", sanitizeCaption(caption), submittedAt.Format("20060102_150405"), extension)
}

// buildPath shards objects by year/month of submission.
func buildPath(submittedAt time.Time, filename string) string {
	return submittedAt.Format("2006/01") + "/" + filename
}

func sanitizeCaption(caption string) string {
	caption = strings.ToLower(strings.TrimSpace(caption))

	var b strings.Builder
	lastUnderscore := false
	for _, r := range caption {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteRune('_')
			}
			lastUnderscore = true
		}
	}

	out := strings.Trim(b.String(), "_")
	if out == "" {
		return "media"
	}
	return out
}

func videoExtension(mimeType string) string {
	switch mimeType {
	case "video/mp4":
		return ".mp4"
	case "video/quicktime":
		return ".mov"
	case "video/webm":
		return ".webm"
	case "video/x-matroska":
		return ".mkv"
	}
	return ".bin"
}
