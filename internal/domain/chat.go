package domain

// ChatRequest is the inbound shopping message
type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

// ExtractionResult is what the LLM output was reduced to.
// SearchTerms is never empty; AssistantReply is nil when the model gave none.
type ExtractionResult struct {
	SearchTerms    []string
	AssistantReply *string
}

// Product is the compact product card returned to the client
type Product struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"img"`
	Price string `json:"price"`
	Link  string `json:"link"`
}

// ChatResponse is the terminal payload of one chat request
type ChatResponse struct {
	Reply    string    `json:"reply"`
	Products []Product `json:"products"`
}
