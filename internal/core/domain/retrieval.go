package domain

// Retrieval origins tag where a fused result came from. The score
// scales are not comparable between origins: vector scores derive from
// embedding distance, keyword hits carry a flat constant.
const (
	OriginVector  = "vector"
	OriginKeyword = "keyword"
)

// RetrievalItem is one ranked hit of a retrieval call. Ephemeral:
// it exists only for the duration of a single query.
type RetrievalItem struct {
	// ID is the vector-store id of the matched chunk.
	ID string

	// Doc is the source document identifier. At most one item per
	// Doc survives fusion.
	Doc string

	// Title is the section heading of the matched chunk.
	Title string

	// Text is the chunk body.
	Text string

	// Score is the relevance score, higher is better.
	Score float64

	// Origin is OriginVector or OriginKeyword.
	Origin string
}
