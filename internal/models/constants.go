package models

const (
	WelcomeMessage = "Welcome to StudyMate! Upload your PDFs and ask questions to get started."

	NoBackendAnswer = "No LLM available. Please provide API keys."
)

var (
	AnswerPromptTemplate = `Answer the following question based on the provided context. If the context is insufficient, say so and provide a general answer if possible.

Question: %s

Context:
%s`
)
