package validator

import (
	"bytes"
	"html"
	"mime"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"

	"github.com/revinhocontact-cloud/rxcartcart/internal/authorization"
	"github.com/revinhocontact-cloud/rxcartcart/internal/poster"
)

var (
	validate  *validator.Validate
	sanitizer *bluemonday.Policy

	spacePattern = regexp.MustCompile(`\s+`)
)

func Init() {
	validate = validator.New()

	sanitizer = bluemonday.StrictPolicy()

	registerCustomValidations(validate)

	if engine, ok := binding.Validator.Engine().(*validator.Validate); ok {
		registerCustomValidations(engine)
	}
}

func registerCustomValidations(v *validator.Validate) {
	v.RegisterValidation("paper_size", validatePaperSize)
	v.RegisterValidation("campaign", validateCampaign)
	v.RegisterValidation("layout_key", validateLayoutKey)
	v.RegisterValidation("role", validateRole)
	v.RegisterValidation("plan", validatePlan)
	v.RegisterValidation("user_status", validateUserStatus)
	v.RegisterValidation("no_html", validateNoHTML)
}

func Validate(s interface{}) error {
	if validate == nil {
		Init()
	}
	return validate.Struct(s)
}

// SanitizeString strips every tag from s and collapses whitespace. The result
// is plain text; entities are decoded since templates escape on output.
func SanitizeString(s string) string {
	if sanitizer == nil {
		sanitizer = bluemonday.StrictPolicy()
	}
	return NormalizeSpaces(strings.TrimSpace(html.UnescapeString(sanitizer.Sanitize(s))))
}

func NormalizeSpaces(s string) string {
	return spacePattern.ReplaceAllString(s, " ")
}

func validatePaperSize(fl validator.FieldLevel) bool {
	_, ok := poster.Lookup(poster.PaperSize(fl.Field().String()))
	return ok
}

func validateCampaign(fl validator.FieldLevel) bool {
	return poster.CampaignType(fl.Field().String()).IsValid()
}

func validateLayoutKey(fl validator.FieldLevel) bool {
	return poster.ElementKey(fl.Field().String()).IsValid()
}

func validateRole(fl validator.FieldLevel) bool {
	_, ok := authorization.ParseUserRole(fl.Field().String())
	return ok
}

func validatePlan(fl validator.FieldLevel) bool {
	_, ok := authorization.ParsePlan(fl.Field().String())
	return ok
}

func validateUserStatus(fl validator.FieldLevel) bool {
	status := authorization.UserStatus(strings.ToUpper(strings.TrimSpace(fl.Field().String())))
	return status.IsValid()
}

func validateNoHTML(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return !strings.Contains(value, "<") && !strings.Contains(value, ">")
}

func ValidateImageExtension(filename string) bool {
	allowedExtensions := []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}
	filename = strings.ToLower(filename)

	for _, ext := range allowedExtensions {
		if strings.HasSuffix(filename, ext) {
			return true
		}
	}
	return false
}

func ValidateFileSize(size int64, maxSize int64) bool {
	return size > 0 && size <= maxSize
}

// ValidateContentType validates that the provided MIME type is in the allowed list.
// Wildcards such as "image/*" are accepted.
func ValidateContentType(contentType string, allowedMimeTypes []string) bool {
	if contentType == "" || len(allowedMimeTypes) == 0 {
		return false
	}

	mimeType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	mimeType = strings.ToLower(strings.TrimSpace(mimeType))

	for _, allowed := range allowedMimeTypes {
		allowed = strings.ToLower(strings.TrimSpace(allowed))

		if mimeType == allowed {
			return true
		}

		if strings.HasSuffix(allowed, "/*") {
			prefix := strings.TrimSuffix(allowed, "/*")
			if strings.HasPrefix(mimeType, prefix+"/") {
				return true
			}
		}
	}

	return false
}

func ValidateImageContentType(contentType string) bool {
	return ValidateContentType(contentType, []string{
		"image/jpeg",
		"image/png",
		"image/gif",
		"image/webp",
	})
}

// DetectImageType sniffs the magic number of the supported raster formats.
// It returns "" for anything else.
func DetectImageType(data []byte) string {
	switch {
	case bytes.HasPrefix(data, []byte{0x89, 0x50, 0x4E, 0x47}):
		return "image/png"
	case bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF}):
		return "image/jpeg"
	case bytes.HasPrefix(data, []byte{0x47, 0x49, 0x46, 0x38}):
		return "image/gif"
	case len(data) > 12 && bytes.HasPrefix(data, []byte{0x52, 0x49, 0x46, 0x46}) &&
		bytes.HasPrefix(data[8:], []byte{0x57, 0x45, 0x42, 0x50}):
		return "image/webp"
	default:
		return ""
	}
}
