package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DocumentType string

const (
	DocumentXML DocumentType = "xml"
	DocumentPDF DocumentType = "pdf"
)

func ParseDocumentType(raw string) (DocumentType, bool) {
	switch DocumentType(raw) {
	case DocumentXML:
		return DocumentXML, true
	case DocumentPDF:
		return DocumentPDF, true
	default:
		return "", false
	}
}

func (t DocumentType) Extension() string {
	return string(t)
}

// Filing is one generated return for one business for one first-used month.
// PDFKey stays nil until the overlay has been stored; a filing with only an
// XML key is a valid, recoverable state.
type Filing struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Month        string
	XMLKey       string
	PDFKey       *string
	VehicleCount int
	TotalTax     decimal.Decimal
	Payload      []byte
	CreatedAt    time.Time
}

// RecordedKey returns the key stored on the filing row for the given
// document type, empty when none was recorded.
func (f Filing) RecordedKey(docType DocumentType) string {
	switch docType {
	case DocumentXML:
		return f.XMLKey
	case DocumentPDF:
		if f.PDFKey != nil {
			return *f.PDFKey
		}
	}
	return ""
}
