package models

// PageKind identifies what a composed page holds
type PageKind string

const (
	PageHeader      PageKind = "header"
	PageDevice      PageKind = "device"
	PagePartGroup   PageKind = "part-group"
	PageSummary     PageKind = "summary"
	PageApproval    PageKind = "approval"
	PageRepairLines PageKind = "repair-lines"
)

// SpecField is one label/value row produced by a device category
type SpecField struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// ChecklistEntry is one row of the approval checklist
type ChecklistEntry struct {
	Label  string `json:"label"`
	Detail string `json:"detail"`
	Amount string `json:"amount,omitempty"`
}

// DeviceContent is the body of a standard device page
type DeviceContent struct {
	Index    int         `json:"index"`
	Item     SaleItem    `json:"item"`
	Category string      `json:"category"`
	Fields   []SpecField `json:"fields"`
	Specs    []SpecField `json:"specs"`
	Pricing  ItemPricing `json:"pricing"`
}

// PageDescriptor is one composed page. Only the fields relevant to Kind are set.
type PageDescriptor struct {
	Kind        PageKind            `json:"kind"`
	Number      int                 `json:"number"` // 1-based
	WithHeader  bool                `json:"withHeader"`
	Placeholder string              `json:"placeholder,omitempty"`
	Device      *DeviceContent      `json:"device,omitempty"`
	Parts       []CustomBuildPart   `json:"parts,omitempty"`
	Prompt      string              `json:"prompt,omitempty"`
	Lines       []RepairLinePricing `json:"lines,omitempty"`
	Summary     *BuildTotals        `json:"summary,omitempty"`
	Checklist   []ChecklistEntry    `json:"checklist,omitempty"`
	Notes       string              `json:"notes,omitempty"`
	Signature   bool                `json:"signature"` // page carries the signature/date block
}
