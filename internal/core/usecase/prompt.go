package usecase

import "fmt"

const analysisPromptTemplate = `You are an expert HR and recruitment specialist. Analyze the resume below against the job requirements.

Job Requirements: %s

Resume: %s

Provide a structured analysis of how well the resume matches the job requirements.
At the end, clearly state a "Suitability Score" as a percentage (0-100%%) based on how well the resume aligns.
Use a whole number with no decimals and put it on its own final line.
Format: Suitability Score: XX%%
`

// BuildAnalysisPrompt embeds both inputs verbatim into the fixed screening template.
func BuildAnalysisPrompt(jobRequirements, resumeText string) string {
	return fmt.Sprintf(analysisPromptTemplate, jobRequirements, resumeText)
}
