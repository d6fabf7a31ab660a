package models

// SignatureMode records how a signature was captured
type SignatureMode string

const (
	SignatureDrawn SignatureMode = "drawn"
	SignatureTyped SignatureMode = "typed"
)

// SignatureStamp is a finalized, flattened signature attached to a quote
type SignatureStamp struct {
	Mode       SignatureMode `json:"mode"`
	SignedName string        `json:"signedName,omitempty"` // Typed name, if any
	ImageData  string        `json:"imageData"`            // data:image/png;base64,...
	Width      int           `json:"width"`
	Height     int           `json:"height"`
	SignedAt   string        `json:"signedAt"` // Date stamped into the date box
}

// FinalizeSignatureRequest represents the request body posted by the document's Finalize action
type FinalizeSignatureRequest struct {
	Mode       SignatureMode `json:"mode"`
	SignedName string        `json:"signedName,omitempty"`
	ImageData  string        `json:"imageData"`
	SignedAt   string        `json:"signedAt,omitempty"`
}
