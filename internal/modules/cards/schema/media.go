package schema

import (
	"regexp"

	"github.com/yungbote/coursecards-backend/internal/domain"
	"github.com/yungbote/coursecards-backend/internal/platform/apierr"
)

var imageSizeRE = regexp.MustCompile(`^\d+x\d+$`)

// ValidateImageSize accepts "<width>x<height>" with an ASCII x. Empty means default.
func ValidateImageSize(size string) error {
	if size == "" || imageSizeRE.MatchString(size) {
		return nil
	}
	return apierr.Validation(CodeInvalidImageSize, "image size %q must look like 1024x1024", size)
}

func ValidateImageFormat(format domain.ImageFormat) error {
	switch format {
	case "", domain.ImageFormatPNG, domain.ImageFormatJPG:
		return nil
	default:
		return apierr.Validation(CodeInvalidImageFormat, "image format %q must be png or jpg", format)
	}
}
