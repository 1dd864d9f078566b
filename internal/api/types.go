package api

// QueryRequest is the body of POST /recipes/query.
type QueryRequest struct {
	Query string `json:"query" binding:"required,min=1"`
}

// QueryResponse carries the assistant's answer.
type QueryResponse struct {
	Answer string `json:"answer"`
}

// MessageResponse is a plain informational response.
type MessageResponse struct {
	Message string `json:"message"`
}
