package domain

type MediaKind string

const (
	MediaKindAudio MediaKind = "audio"
	MediaKindImage MediaKind = "image"
)

func ParseMediaKind(raw string) (MediaKind, bool) {
	switch MediaKind(raw) {
	case MediaKindAudio, "speech":
		return MediaKindAudio, true
	case MediaKindImage, "images":
		return MediaKindImage, true
	default:
		return "", false
	}
}

type ImageFormat string

const (
	ImageFormatPNG ImageFormat = "png"
	ImageFormatJPG ImageFormat = "jpg"
)

const (
	DefaultImageSize   = "1024x1024"
	DefaultImageFormat = ImageFormatPNG
)

type AspectRatio string

const (
	AspectSquare    AspectRatio = "square"
	AspectPortrait  AspectRatio = "portrait"
	AspectLandscape AspectRatio = "landscape"
)

// SizeForAspect maps an aspect preset to the image size sent to the image
// service. Unknown or empty presets fall back to square.
func SizeForAspect(a AspectRatio) string {
	switch a {
	case AspectPortrait:
		return "1024x1536"
	case AspectLandscape:
		return "1536x1024"
	default:
		return DefaultImageSize
	}
}

// AudioBackgroundSize is always portrait.
var AudioBackgroundSize = SizeForAspect(AspectPortrait)
