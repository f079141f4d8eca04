package wordlist

import (
	"strings"
	"unicode"
)

// MinVocabularyLen is the shortest word considered for vocabulary questions.
const MinVocabularyLen = 5

var stopwords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`about above after again against among because been before being
		below between could does doing down during each either every from further having here
		herself himself itself myself nothing other ourselves over should some such than that
		their theirs them themselves then there these they this those through thus under until
		upon very were what when where which while whom whose would your yours yourself shall
		might must into only also again whilst still though even much many more most never`) {
		stopwords[w] = struct{}{}
	}
}

// FilterFunc returns true when a word should be kept.
type FilterFunc func(string) bool

// IsVocabularyWord keeps lowercase ASCII words long enough to be worth asking
// about and not among the common function words.
func IsVocabularyWord(word string) bool {
	if len(word) < MinVocabularyLen {
		return false
	}
	for i := 0; i < len(word); i++ {
		ch := word[i]
		if ch < 'a' || ch > 'z' {
			return false
		}
	}
	_, stop := stopwords[word]
	return !stop
}

// Tokenize splits text into lowercase words, trimming surrounding punctuation.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\'' && r != '’' && r != '-'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, "'’-")
		if f != "" {
			out = append(out, strings.ToLower(f))
		}
	}
	return out
}

// Candidates returns the distinct words of text accepted by keep, in order of
// first appearance.
func Candidates(text string, keep FilterFunc) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, w := range Tokenize(text) {
		if _, ok := seen[w]; ok || !keep(w) {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

// Exclude returns words that do not occur in text.
func Exclude(words []string, text string) []string {
	present := map[string]struct{}{}
	for _, w := range Tokenize(text) {
		present[w] = struct{}{}
	}
	out := make([]string, 0, len(words))
	for _, w := range words {
		if _, ok := present[strings.ToLower(w)]; !ok {
			out = append(out, w)
		}
	}
	return out
}
