package domain

// Selection is the node-graph boundary payload: the item the user picked in
// the gallery plus the flag asking for the media to be materialized.
type Selection struct {
	Item          Item
	DownloadImage bool
}

// SelectionResult carries the four node outputs. ImagePNG is always a valid
// PNG: either the downloaded media re-encoded, or the documented single-pixel
// placeholder when the download was not requested or failed.
type SelectionResult struct {
	PositivePrompt string
	NegativePrompt string
	ImagePNG       []byte
	Info           string
}

// WorkflowProbe is the outcome of a byte-range probe for an embedded
// workflow/prompt marker. A non-empty Note means the media chunk could not be
// fetched; the probe itself still completes without error.
type WorkflowProbe struct {
	HasWorkflow bool
	Note        string
}
