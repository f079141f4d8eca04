// Package generator builds multiple-choice quiz questions from page text and
// synthetic quiz history.
package generator

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/verte-zerg/readquiz/internal/model"
	"github.com/verte-zerg/readquiz/internal/wordlist"
)

// DefaultQuestions is the number of questions asked per quiz.
const DefaultQuestions = 3

// OptionCount is the number of choices offered per question.
const OptionCount = 4

const (
	vocabularyPrompt = "Which of these words appeared in the passage?"
	clozePrompt      = "Which word completes the sentence?"
	blank            = "_____"
	minClozeWords    = 6
)

// Generator produces randomized questions. It is not safe for concurrent use.
type Generator struct {
	rnd         *rand.Rand
	distractors []string
}

// New returns a Generator seeded with the current time.
func New(distractors []string) *Generator {
	return NewSeeded(time.Now().UnixNano(), distractors)
}

// NewSeeded returns a deterministic Generator.
func NewSeeded(seed int64, distractors []string) *Generator {
	if len(distractors) == 0 {
		distractors = wordlist.Default()
	}
	return &Generator{rnd: rand.New(rand.NewSource(seed)), distractors: distractors}
}

// Questions builds up to n questions about page, alternating vocabulary and
// sentence-completion questions. When the page lacks material for one kind
// the other is used; fewer than n questions are returned when neither fits.
func (g *Generator) Questions(page string, n int) []model.Question {
	if n <= 0 {
		return nil
	}
	candidates := wordlist.Candidates(page, wordlist.IsVocabularyWord)
	g.rnd.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })
	outside := wordlist.Exclude(g.distractors, page)
	sentences := clozeSentences(page)
	g.rnd.Shuffle(len(sentences), func(i, j int) { sentences[i], sentences[j] = sentences[j], sentences[i] })

	usedWords := map[string]bool{}
	usedSentences := map[int]bool{}
	var out []model.Question
	for i := 0; len(out) < n; i++ {
		var q model.Question
		var ok bool
		if i%2 == 0 {
			q, ok = g.vocabulary(candidates, outside, usedWords)
			if !ok {
				q, ok = g.cloze(sentences, candidates, outside, usedSentences)
			}
		} else {
			q, ok = g.cloze(sentences, candidates, outside, usedSentences)
			if !ok {
				q, ok = g.vocabulary(candidates, outside, usedWords)
			}
		}
		if !ok {
			break
		}
		out = append(out, q)
	}
	return out
}

func (g *Generator) vocabulary(candidates, outside []string, used map[string]bool) (model.Question, bool) {
	if len(outside) < OptionCount-1 {
		return model.Question{}, false
	}
	for _, word := range candidates {
		if used[word] {
			continue
		}
		used[word] = true
		wrong := g.pick(outside, OptionCount-1, map[string]bool{word: true})
		return g.assemble(model.QuestionVocabulary, vocabularyPrompt, word, wrong), true
	}
	return model.Question{}, false
}

func (g *Generator) cloze(sentences []string, candidates, outside []string, used map[int]bool) (model.Question, bool) {
	for idx, sentence := range sentences {
		if used[idx] {
			continue
		}
		words := wordlist.Candidates(sentence, wordlist.IsVocabularyWord)
		if len(words) == 0 {
			continue
		}
		answer := words[g.rnd.Intn(len(words))]
		inSentence := map[string]bool{}
		for _, w := range wordlist.Tokenize(sentence) {
			inSentence[w] = true
		}
		pool := make([]string, 0, len(candidates)+len(outside))
		for _, c := range candidates {
			if !inSentence[c] {
				pool = append(pool, c)
			}
		}
		pool = append(pool, outside...)
		wrong := g.pick(pool, OptionCount-1, map[string]bool{answer: true})
		if len(wrong) < OptionCount-1 {
			continue
		}
		used[idx] = true
		prompt := fmt.Sprintf("%s\n\n%s", clozePrompt, blankWord(sentence, answer))
		return g.assemble(model.QuestionComprehension, prompt, answer, wrong), true
	}
	return model.Question{}, false
}

// pick draws up to k distinct words from pool, skipping excluded ones.
func (g *Generator) pick(pool []string, k int, exclude map[string]bool) []string {
	order := g.rnd.Perm(len(pool))
	out := make([]string, 0, k)
	for _, i := range order {
		w := pool[i]
		if exclude[w] {
			continue
		}
		exclude[w] = true
		out = append(out, w)
		if len(out) == k {
			break
		}
	}
	return out
}

func (g *Generator) assemble(typ, prompt, answer string, wrong []string) model.Question {
	options := append([]string{answer}, wrong...)
	g.rnd.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })
	correct := 0
	for i, o := range options {
		if o == answer {
			correct = i
			break
		}
	}
	return model.Question{Type: typ, Prompt: prompt, Options: options, Answer: correct}
}

// clozeSentences splits page into sentences long enough to blank a word from.
func clozeSentences(page string) []string {
	var out []string
	var b strings.Builder
	flush := func() {
		s := strings.Join(strings.Fields(b.String()), " ")
		b.Reset()
		if len(strings.Fields(s)) >= minClozeWords {
			out = append(out, s)
		}
	}
	for _, r := range page {
		b.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			flush()
		}
	}
	flush()
	return out
}

// blankWord replaces the first whole-word occurrence of word in sentence.
func blankWord(sentence, word string) string {
	fields := strings.Fields(sentence)
	for i, f := range fields {
		core := strings.ToLower(strings.Trim(f, ".,;:!?\"'()[]“”‘’-"))
		if core == word {
			start := strings.Index(strings.ToLower(f), word)
			fields[i] = f[:start] + blank + f[start+len(word):]
			return strings.Join(fields, " ")
		}
	}
	return sentence
}
