package constants

// ExtractionMethod records which path produced a result.
type ExtractionMethod string

const (
	MethodTable ExtractionMethod = "table" // structured table path
	MethodOCR   ExtractionMethod = "ocr"   // line-oriented OCR fallback
)
