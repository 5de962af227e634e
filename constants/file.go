package constants

import (
	"bytes"
	"strings"
)

// Document formats understood by the loaders.
const (
	PDF   = "PDF"
	IMAGE = "IMAGE"
	XLSX  = "XLSX"
)

// AllowedExtensions holds the default allowed file extensions for soil report ingestion.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"png":  {},
	"jpg":  {},
	"jpeg": {},
	"tif":  {},
	"tiff": {},
	"webp": {},
	"heic": {},
	"heif": {},
	"xlsx": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat maps a file extension to a document format, "" if unknown.
func MapExtToFormat(ext string) string {
	switch NormalizeExt(ext) {
	case "pdf":
		return PDF
	case "png", "jpg", "jpeg", "tif", "tiff", "webp", "heic", "heif":
		return IMAGE
	case "xlsx":
		return XLSX
	}
	return ""
}

var (
	magicPDF  = []byte("%PDF-")
	magicPNG  = []byte{0x89, 'P', 'N', 'G'}
	magicJPEG = []byte{0xFF, 0xD8, 0xFF}
	magicTIFL = []byte{'I', 'I', 0x2A, 0x00}
	magicTIFB = []byte{'M', 'M', 0x00, 0x2A}
	magicZIP  = []byte{'P', 'K', 0x03, 0x04}
)

// DetectFormat sniffs the leading bytes of a document. Uploaded reports
// rarely carry a trustworthy filename, so content wins over extension.
func DetectFormat(data []byte) string {
	switch {
	case bytes.HasPrefix(data, magicPDF):
		return PDF
	case bytes.HasPrefix(data, magicPNG),
		bytes.HasPrefix(data, magicJPEG),
		bytes.HasPrefix(data, magicTIFL),
		bytes.HasPrefix(data, magicTIFB):
		return IMAGE
	case bytes.HasPrefix(data, magicZIP):
		return XLSX
	case IsHEIC(data), isWebP(data):
		return IMAGE
	}
	// some generators prepend junk before the PDF header
	if i := bytes.Index(data[:min(len(data), 1024)], magicPDF); i >= 0 {
		return PDF
	}
	return ""
}

// IsHEIC reports whether data is an ISO-BMFF HEIC/HEIF container.
func IsHEIC(data []byte) bool {
	if len(data) < 12 || string(data[4:8]) != "ftyp" {
		return false
	}
	switch string(data[8:12]) {
	case "heic", "heix", "heif", "mif1", "msf1":
		return true
	}
	return false
}

func isWebP(data []byte) bool {
	return len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP"
}
