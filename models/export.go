package models

// ExportKind is the artifact type of an export reference
type ExportKind string

const (
	ExportKindPDF  ExportKind = "pdf"
	ExportKindHTML ExportKind = "html"
)

// ExportRecord is the reference entry written after a successful native export
type ExportRecord struct {
	ID           string     `json:"id"`
	QuoteID      string     `json:"quoteId,omitempty"`
	Kind         ExportKind `json:"kind"`
	FilenameBase string     `json:"filenameBase"`
	FilePath     string     `json:"filePath"`
	Bytes        int        `json:"bytes"`
	ArchiveURL   string     `json:"archiveUrl,omitempty"`
	CreatedAt    string     `json:"createdAt"`
}

// ExportRequest represents the request body for exporting a quote document
type ExportRequest struct {
	QuoteID      string `json:"quoteId,omitempty"`
	Cart         Cart   `json:"cart"`
	FilenameBase string `json:"filenameBase,omitempty"`
}

// ExportResponse tells the UI which path the export took
// Example: {"mode": "native", "ok": true, "filePath": "/home/shop/Documents/Quotes/Quote - Dana Ruiz - 2026-01-04.pdf"}
// Example: {"mode": "browser", "ok": true, "previewUrl": "/admin/quotes/preview/3c9e..."}
type ExportResponse struct {
	Mode       string `json:"mode"` // native or browser
	OK         bool   `json:"ok"`
	FilePath   string `json:"filePath,omitempty"`
	Canceled   bool   `json:"canceled,omitempty"`
	PreviewURL string `json:"previewUrl,omitempty"`
	Message    string `json:"message,omitempty"`
}

// EmailQuoteRequest represents the request body for emailing a quote document
type EmailQuoteRequest struct {
	To       string `json:"to" validate:"required,email"`
	Subject  string `json:"subject"`
	BodyText string `json:"bodyText"`
	Cart     Cart   `json:"cart"`
}

// StatusMessage is the transient, auto-dismissing banner payload returned on failures
type StatusMessage struct {
	Status         string `json:"status"` // ok, error
	Message        string `json:"message"`
	DismissAfterMs int    `json:"dismissAfterMs"`
}
