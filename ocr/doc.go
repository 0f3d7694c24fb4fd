// Package ocr recognizes text on rendered page images.
//
// The [Engine] interface is the contract the raster extraction strategy
// depends on: an image and a language code go in, plain text comes out, and
// a [ProgressFunc] observes recognition along the way.
//
// [Client] implements Engine on top of the Tesseract OCR engine via
// gosseract. Tesseract must be installed on the system and the package must
// be built with the "ocr" build tag:
//
//	go build -tags ocr
//
// On macOS, install via:
//
//	brew install tesseract tesseract-lang
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr tesseract-ocr-kor
//
// Without the tag, [New] returns [ErrOCRNotEnabled] and every recognition
// call fails with the same error, so callers can treat OCR as an optional
// capability.
package ocr
