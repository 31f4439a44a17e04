package catalog

// ImageSize selects one of the fixed asset size variants the catalog hosts.
type ImageSize string

const (
	SizeSmall    ImageSize = "small"
	SizeMedium   ImageSize = "medium"
	SizeLarge    ImageSize = "large"
	SizeOriginal ImageSize = "original"
)

var posterVariants = map[ImageSize]string{
	SizeSmall:    "w154",
	SizeMedium:   "w342",
	SizeLarge:    "w500",
	SizeOriginal: "original",
}

var backdropVariants = map[ImageSize]string{
	SizeSmall:    "w300",
	SizeMedium:   "w780",
	SizeLarge:    "w1280",
	SizeOriginal: "original",
}

// ImageResolver turns the nullable relative art paths the catalog returns
// into absolute URLs. Resolution is pure string concatenation; no check is
// made that the result is reachable.
type ImageResolver struct {
	baseURL string
}

// NewImageResolver creates a resolver rooted at the configured image host.
func NewImageResolver(baseURL string) ImageResolver {
	return ImageResolver{baseURL: baseURL}
}

// PosterURL resolves a poster path at the requested size tier. A nil or
// empty path resolves to "".
func (r ImageResolver) PosterURL(path *string, size ImageSize) string {
	return r.resolve(posterVariants, path, size)
}

// BackdropURL resolves a backdrop path at the requested size tier. A nil or
// empty path resolves to "".
func (r ImageResolver) BackdropURL(path *string, size ImageSize) string {
	return r.resolve(backdropVariants, path, size)
}

func (r ImageResolver) resolve(variants map[ImageSize]string, path *string, size ImageSize) string {
	if path == nil || *path == "" {
		return ""
	}
	variant, ok := variants[size]
	if !ok {
		variant = variants[SizeOriginal]
	}
	return r.baseURL + "/" + variant + *path
}
