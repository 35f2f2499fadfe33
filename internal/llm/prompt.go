package llm

import (
	"fmt"

	"github.com/openai/openai-go/v3/responses"
	"github.com/openai/openai-go/v3/shared"
)

// analystPersona is the fixed system instruction for every chunk analysis.
const analystPersona = "You are an expert document analyst with deep knowledge " +
	"across various domains. Your task is to analyze the given document " +
	"comprehensively and accurately."

// BuildAnalysisRequest builds the completion request for one chunk of a
// document: the analyst persona as the system message, a user message
// embedding the document title and chunk text with the summary-brevity
// instruction, and the strict document_analysis response schema. Pure
// transformation, no side effects.
func BuildAnalysisRequest(model shared.ChatModel, documentTitle, chunkText string) responses.ResponseNewParams {
	userMessage := fmt.Sprintf(
		"Analyze the following part of the document titled %q:\n\n%s. "+
			"Please provide a very concise summary (no more than 2-3 sentences) "+
			"focusing only on the key points without repetition.",
		documentTitle, chunkText)

	return responses.ResponseNewParams{
		Model: model,
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: responses.ResponseInputParam{
				responses.ResponseInputItemParamOfMessage(
					responses.ResponseInputMessageContentListParam{
						responses.ResponseInputContentParamOfInputText(analystPersona),
					},
					"system",
				),
				responses.ResponseInputItemParamOfMessage(
					responses.ResponseInputMessageContentListParam{
						responses.ResponseInputContentParamOfInputText(userMessage),
					},
					"user",
				),
			},
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigParamOfJSONSchema(analysisSchemaName, documentAnalysisSchema),
		},
	}
}
