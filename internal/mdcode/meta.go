package mdcode

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/google/shlex"
)

// Meta holds the options written after the language word of a fence info
// string, either as a JSON object or as shell-style key=value words:
//
//	```plantuml {theme=plain scale=2}
//	```uml {"theme": "plain"}
type Meta map[string]interface{}

// Get returns the option value for the given key as a string.
// It returns an empty string if the key is missing or the Meta is nil.
func (m Meta) Get(name string) string {
	if m == nil {
		return ""
	}

	value, has := m[name]
	if !has {
		return ""
	}

	if s, ok := value.(string); ok {
		return s
	}

	return fmt.Sprint(value)
}

// String renders the options as space separated key=value pairs, sorted by key.
func (m Meta) String() string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + "=" + m.Get(k)
	}

	return strings.Join(pairs, " ")
}

var (
	reInfo     = regexp.MustCompile(`^\s*(\w+)\s*(.*?)\s*$`)
	reJSON     = regexp.MustCompile(`^\s*{\s*["}]`)
	reBrackets = regexp.MustCompile(`^\s*{(.*)}$`)
)

func parseInfo(text []byte) (string, Meta, error) {
	all := reInfo.FindSubmatch(text)
	if all == nil {
		return "", Meta{}, nil
	}

	meta, err := parseMeta(all[2])

	return string(all[1]), meta, err
}

func parseMeta(input []byte) (Meta, error) {
	if len(input) == 0 {
		return Meta{}, nil
	}

	if reJSON.Match(input) {
		var meta Meta

		if err := json.Unmarshal(input, &meta); err != nil {
			return nil, fmt.Errorf("fence options: %w", err)
		}

		return meta, nil
	}

	if subs := reBrackets.FindSubmatch(input); subs != nil {
		input = subs[1]
	}

	words, err := shlex.Split(string(input))
	if err != nil {
		return nil, fmt.Errorf("fence options: %w", err)
	}

	dict := make(Meta)

	for _, word := range words {
		if key, value, found := strings.Cut(word, "="); found && len(key) != 0 {
			dict[key] = value
		}
	}

	return dict, nil
}
