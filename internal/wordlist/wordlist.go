// Package wordlist loads vocabulary lists and picks quiz words out of text.
package wordlist

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// builtin is used for vocabulary distractors when no list file is configured.
var builtin = []string{
	"abandon", "absurd", "accord", "acquaint", "admire", "affection", "amiable",
	"anguish", "anxious", "ardent", "barren", "benevolent", "bewilder", "bitter",
	"candid", "caprice", "cavern", "cherish", "clamour", "composure", "confide",
	"consent", "contempt", "cordial", "courage", "dainty", "dismal", "dread",
	"earnest", "eloquent", "endeavour", "envy", "esteem", "exquisite", "feeble",
	"fervent", "folly", "fortune", "frivolous", "gallant", "gloomy", "grateful",
	"grievous", "haughty", "humble", "idle", "impudent", "indolent", "jealous",
	"keen", "lament", "languid", "lofty", "malice", "meadow", "melancholy",
	"merry", "modest", "mournful", "noble", "obscure", "obstinate", "peculiar",
	"perceive", "placid", "prudent", "quarrel", "rapture", "remorse", "resolve",
	"scorn", "serene", "sincere", "solemn", "sorrow", "splendid", "stern",
	"tempest", "tender", "tranquil", "vanity", "vex", "vigour", "wander",
	"weary", "wicked", "wistful", "wretched", "yearn", "zealous",
}

// Default returns a copy of the built-in distractor list.
func Default() []string {
	out := make([]string, len(builtin))
	copy(out, builtin)
	return out
}

// Load reads path when it is set and falls back to the built-in list otherwise.
func Load(path string) ([]string, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadWords(path)
}

// LoadWords reads one word per line from the provided file path. Blank lines
// and lines starting with '#' are skipped; words are lowercased.
func LoadWords(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, strings.ToLower(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("word list %s is empty", path)
	}
	return words, nil
}
