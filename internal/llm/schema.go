package llm

// analysisSchemaName labels the structured-output contract in completion
// requests.
const analysisSchemaName = "document_analysis"

// documentAnalysisSchema is the strict JSON schema every chunk analysis must
// conform to. All eight fields are required and no extra properties are
// allowed, so a schema-violating response fails decoding instead of
// propagating as if valid.
var documentAnalysisSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"summary": map[string]any{
			"type": "string",
			"description": "A very concise summary of the document in 2-3 sentences, " +
				"focusing only on the key points without repetition.",
		},
		"keywords": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"word":        map[string]any{"type": "string"},
					"explanation": map[string]any{"type": "string"},
				},
				"required":             []string{"word", "explanation"},
				"additionalProperties": false,
			},
			"description": "5-7 most important keywords or phrases with explanations",
		},
		"categories": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"description": "2-3 main categories that best describe the document content",
		},
		"tags": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"description": "5-7 related tags for indexing or searching the document",
		},
		"keyInsights": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"description": "3-5 key insights or points derived from the document",
		},
		"toneAndStyle": map[string]any{
			"type":        "string",
			"description": "A brief description of the document's tone and style",
		},
		"targetAudience": map[string]any{
			"type":        "string",
			"description": "Identification of the expected target audience for this document",
		},
		"potentialApplications": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"description": "2-3 potential applications or use cases for the information in this document",
		},
	},
	"required": []string{
		"summary",
		"keywords",
		"categories",
		"tags",
		"keyInsights",
		"toneAndStyle",
		"targetAudience",
		"potentialApplications",
	},
	"additionalProperties": false,
}
