// Package ocr reads the text on a scanned page using Tesseract.
//
// This package wraps the Tesseract OCR engine (via gosseract/v2). Pages are
// passed as in-memory images; they are PNG-encoded and handed to Tesseract
// without touching the filesystem.
//
// # Prerequisites
//
// Tesseract must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr libtesseract-dev
//   - macOS: brew install tesseract
//
// Language data files are required for each language:
//   - Ubuntu/Debian: apt-get install tesseract-ocr-eng (for English)
//   - Other languages: tesseract-ocr-<lang> packages
//
// # Input Quality
//
// Tesseract expects dark text on a light, upright page. Rectify and
// threshold a photo first; OCR on the raw photo of a tilted page rarely
// produces anything useful.
package ocr
