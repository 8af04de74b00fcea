package tokenizer

// defaultStopWords covers English and Portuguese, the two languages job postings
// and profiles arrive in.
var defaultStopWords = []string{
	// English
	"a", "an", "and", "are", "as", "at", "be", "but", "by", "for", "from", "has", "have",
	"in", "into", "is", "it", "its", "of", "on", "or", "our", "that", "the", "their",
	"this", "to", "was", "we", "were", "will", "with", "you", "your",
	// Portuguese
	"as", "ao", "aos", "com", "como", "da", "das", "de", "do", "dos", "e", "em", "entre",
	"na", "nas", "no", "nos", "o", "os", "ou", "para", "pela", "pelo", "por", "que", "se",
	"sem", "ser", "sua", "suas", "seu", "seus", "um", "uma", "é",
}
