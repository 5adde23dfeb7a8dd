package media

import "strings"

// Uniform type identifiers recorded on assets.
const (
	UTIData      = "public.data"
	UTIJPEG      = "public.jpeg"
	UTIPNG       = "public.png"
	UTIGIF       = "com.compuserve.gif"
	UTIHEIC      = "public.heic"
	UTIPDF       = "com.adobe.pdf"
	UTIPlainText = "public.plain-text"
	UTIMPEG4     = "public.mpeg-4"
	UTIMovie     = "com.apple.quicktime-movie"
	UTIEmail     = "com.apple.mail.email"
	UTIHTML      = "public.html"
	UTIJSON      = "public.json"
	UTIZip       = "public.zip-archive"
)

var extensionUTIs = map[string]string{
	"jpg":  UTIJPEG,
	"jpeg": UTIJPEG,
	"png":  UTIPNG,
	"gif":  UTIGIF,
	"heic": UTIHEIC,
	"pdf":  UTIPDF,
	"txt":  UTIPlainText,
	"md":   UTIPlainText,
	"mp4":  UTIMPEG4,
	"m4v":  UTIMPEG4,
	"mov":  UTIMovie,
	"eml":  UTIEmail,
	"html": UTIHTML,
	"htm":  UTIHTML,
	"json": UTIJSON,
	"zip":  UTIZip,
}

// UTIForExtension maps a file extension to its type identifier, public.data when unknown.
func UTIForExtension(ext string) string {
	if uti, ok := extensionUTIs[strings.ToLower(strings.TrimPrefix(ext, "."))]; ok {
		return uti
	}
	return UTIData
}

// ExtensionForUTI is the inverse of UTIForExtension, "dat" when unknown.
func ExtensionForUTI(uti string) string {
	switch uti {
	case UTIJPEG:
		return "jpg"
	case UTIPlainText:
		return "txt"
	case UTIMPEG4:
		return "mp4"
	case UTIHTML:
		return "html"
	}
	for ext, u := range extensionUTIs {
		if u == uti {
			return ext
		}
	}
	return "dat"
}

// IsImage reports whether uti names an image type.
func IsImage(uti string) bool {
	switch uti {
	case UTIJPEG, UTIPNG, UTIGIF, UTIHEIC:
		return true
	}
	return false
}
