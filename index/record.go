package index

// Record is the persisted unit: an identifier, its embedding, and
// metadata holding at least the original chunk text under "text".
type Record struct {
	ID       string
	Values   []float32
	Metadata map[string]any
}

// Match is one query result.
type Match struct {
	ID    string
	Text  string
	Score float32
}
