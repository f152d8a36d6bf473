package filter

// Where is a single field filter applied to a firestore query.
type Where struct {
	Path  string
	Op    string
	Value interface{}
}
