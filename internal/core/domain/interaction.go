package domain

// Interaction is one question/answer exchange scoped to a document.
// Interactions are created by an ask operation and only ever removed
// wholesale by a clear operation.
type Interaction struct {
	ID         string `json:"id"`
	DocumentID string `json:"documentId"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
}
