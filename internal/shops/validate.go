package shops

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrSlugLength  = errors.New("shop name must be between 3 and 20 characters")
	ErrSlugCharset = errors.New("shop name may only contain lowercase letters, numbers and hyphens")
)

var (
	slugRe     = regexp.MustCompile(`^[a-z0-9-]+$`)
	hexColorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
	urlRe      = regexp.MustCompile(`^https?://[^\s/$.?#].[^\s]*$`)
)

// ValidateSlug enforces the shop name rules: 3-20 chars, lowercase
// alphanumeric and hyphen.
func ValidateSlug(slug string) error {
	if len(slug) < 3 || len(slug) > 20 {
		return ErrSlugLength
	}
	if !slugRe.MatchString(slug) {
		return ErrSlugCharset
	}
	return nil
}

// ValidateProduct checks catalog item fields: name required and <= 100
// chars, description <= 500, positive price, http(s) image URL <= 500.
func ValidateProduct(p Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("product name is required")
	}
	if len(p.Name) > 100 {
		return errors.New("product name may not exceed 100 characters")
	}
	if len(p.Description) > 500 {
		return errors.New("product description may not exceed 500 characters")
	}
	if p.Price <= 0 {
		return errors.New("price must be a positive number")
	}
	if p.ImageURL != nil && *p.ImageURL != "" {
		if len(*p.ImageURL) > 500 || !urlRe.MatchString(*p.ImageURL) {
			return errors.New("image URL is not valid")
		}
	}
	return nil
}

// ValidateSettings checks presentation settings: both colors required in
// #rrggbb form, optional http(s) logo URL.
func ValidateSettings(s Settings) error {
	if !hexColorRe.MatchString(s.PrimaryColor) || !hexColorRe.MatchString(s.SecondaryColor) {
		return errors.New("colors must be hexadecimal (e.g. #2563eb)")
	}
	if s.LogoURL != nil && *s.LogoURL != "" {
		if len(*s.LogoURL) > 500 || !urlRe.MatchString(*s.LogoURL) {
			return errors.New("logo URL is not valid")
		}
	}
	return nil
}
