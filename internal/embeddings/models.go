package embeddings

// Supported embedding models and their dimensions
const (
	ModelTextEmbedding3Small = "openai/text-embedding-3-small"
	ModelTextEmbedding3Large = "openai/text-embedding-3-large"
	ModelMiniLML6            = "sentence-transformers/all-minilm-l6-v2"

	DimTextEmbedding3Small = 1536
	DimTextEmbedding3Large = 3072
	DimMiniLML6            = 384

	DefaultModel = ModelTextEmbedding3Small
)

// Dimension returns the vector dimension for a given model
func Dimension(model string) int {
	switch model {
	case ModelTextEmbedding3Small:
		return DimTextEmbedding3Small
	case ModelTextEmbedding3Large:
		return DimTextEmbedding3Large
	case ModelMiniLML6:
		return DimMiniLML6
	default:
		return DimTextEmbedding3Small
	}
}

// embeddingRequest is the wire format of an embedding API call
type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

// embeddingResponse is the wire format of the API response
type embeddingResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Model string `json:"model"`
	Usage struct {
		PromptTokens int `json:"prompt_tokens"`
		TotalTokens  int `json:"total_tokens"`
	} `json:"usage"`
}
