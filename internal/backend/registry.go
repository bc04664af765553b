package backend

// ModelSpec describes one gateway model.
type ModelSpec struct {
	ID string
	// Label is the human-readable name shown by "smartrev models".
	Label string
	// DefaultSelected marks models reviewed by default when the user
	// has not picked any.
	DefaultSelected bool
	Note            string
}

// BaseSynthesizerID is the model used for the final synthesis call.
const BaseSynthesizerID = "llama-3-3-70b-instruct"

// KnownModels returns the catalog of gateway models. The returned
// slice is a fresh copy; callers may filter or reorder it freely
// without affecting other callers.
func KnownModels() []ModelSpec {
	return []ModelSpec{
		{ID: BaseSynthesizerID, Label: "Llama-3.3-70B (Base Synthesizer)", DefaultSelected: true, Note: "Base model (fixed for synthesis)"},
		{ID: "mixtral-8x7b-instruct-v01", Label: "Mixtral-8x7B Instruct", DefaultSelected: true},
		{ID: "mistral-7b-instruct-v03", Label: "Mistral-7B Instruct v0.3", DefaultSelected: true},
		{ID: "mistral-7b-instruct-v03-fc", Label: "Mistral-7B Instruct v0.3 (Function Calling)"},
		{ID: "mistral-small-3.1-24b-instruct-2503", Label: "Mistral Small 24B (3.1) 2503", Note: "May be replaced by newer"},
		{ID: "llama-3-8b-instruct", Label: "Llama-3 8B Instruct"},
		{ID: "llama-3-1-8b-instruct", Label: "Llama-3.1 8B Instruct"},
		{ID: "llama-3-2-3b-instruct", Label: "Llama-3.2 3B Instruct"},
		{ID: "llama-3-3-nemotron-super-49b-v1", Label: "Llama-3.3 Nemotron Super 49B (non-standard FC)"},
		{ID: "phi-3-mini-128k-instruct", Label: "Phi-3 Mini 128k Instruct"},
		{ID: "phi-3-5-moe-instruct", Label: "Phi-3.5 MoE Instruct", DefaultSelected: true},
		{ID: "gemma-3-27b-it", Label: "Gemma 3 27B IT"},
		{ID: "codellama-13b-instruct", Label: "CodeLlama 13B Instruct", DefaultSelected: true, Note: "Code-specialist"},
		{ID: "gpt-oss-120b", Label: "GPT-OSS-120B (Experimental)", Note: "General chat; not code-tuned"},
		{ID: "gpt-oss-20b", Label: "GPT-OSS-20B"},
	}
}

// DefaultSelection returns the IDs of models selected by default, in
// catalog order.
func DefaultSelection() []string {
	var ids []string
	for _, m := range KnownModels() {
		if m.DefaultSelected {
			ids = append(ids, m.ID)
		}
	}
	return ids
}

// IsKnownModel reports whether id appears in the catalog.
func IsKnownModel(id string) bool {
	for _, m := range KnownModels() {
		if m.ID == id {
			return true
		}
	}
	return false
}
