package index

// PostingEntry represents a candidate whose feature vector contains a term.
type PostingEntry struct {
	CandID uint32 // Internal numeric ID assigned by the candidate pool
}

// PostingList is a slice of PostingEntry sorted by CandID ascending,
// which is the order candidates are added to the index.
type PostingList []PostingEntry
