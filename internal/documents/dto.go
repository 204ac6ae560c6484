package documents

import "time"

// DocumentResponse is the outward-facing representation of a document.
type DocumentResponse struct {
	DocumentID   string    `json:"documentId"`
	FileName     string    `json:"fileName"`
	TemplateName string    `json:"templateName"`
	ColorScheme  string    `json:"colorScheme"`
	MimeType     string    `json:"mimeType"`
	SizeBytes    int64     `json:"sizeBytes"`
	PageCount    int       `json:"pageCount"`
	CreatedAt    time.Time `json:"createdAt"`
	DownloadURL  string    `json:"downloadUrl"`
}

func toResponse(doc Document) DocumentResponse {
	return DocumentResponse{
		DocumentID:   doc.ID,
		FileName:     doc.FileName,
		TemplateName: doc.TemplateName,
		ColorScheme:  doc.ColorScheme,
		MimeType:     doc.MimeType,
		SizeBytes:    doc.SizeBytes,
		PageCount:    doc.PageCount,
		CreatedAt:    doc.CreatedAt,
		DownloadURL:  doc.URL,
	}
}
