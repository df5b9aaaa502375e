package tokenizer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// MergeTable holds the learned merge rules in priority order. The first
// rule has rank 1; lower ranks merge first. Read-only after construction.
type MergeTable struct {
	ranks *orderedmap.OrderedMap[string, int]
}

// NewMergeTable builds a merge table from rules of the form "left right",
// in priority order. Each rule must contain exactly one ASCII space and two
// non-empty halves.
func NewMergeTable(rules ...string) (*MergeTable, error) {
	ranks := orderedmap.New[string, int]()
	for i, rule := range rules {
		if err := checkMergeRule(rule); err != nil {
			return nil, fmt.Errorf("%w: merge rule %d: %q", ErrInvalidFormat, i+1, rule)
		}

		if _, ok := ranks.Get(rule); !ok {
			ranks.Set(rule, ranks.Len()+1)
		}
	}

	return &MergeTable{ranks: ranks}, nil
}

// ParseMerges reads a merges file: a header line (e.g. "#version: 0.2"),
// then one "left right" rule per line. Blank lines are skipped. Line order
// determines rank, starting at 1 for the first rule.
func ParseMerges(r io.Reader) (*MergeTable, error) {
	ranks := orderedmap.New[string, int]()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var line int
	for scanner.Scan() {
		line++
		if line == 1 {
			// header
			continue
		}

		text := scanner.Text()
		if text == "" {
			continue
		}

		if err := checkMergeRule(text); err != nil {
			return nil, fmt.Errorf("%w: merges line %d: %q", ErrInvalidFormat, line, text)
		}

		if _, ok := ranks.Get(text); !ok {
			ranks.Set(text, ranks.Len()+1)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading merges: %w", err)
	}

	return &MergeTable{ranks: ranks}, nil
}

// LoadMerges reads a merges file from disk.
func LoadMerges(path string) (*MergeTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading merges: %w", err)
	}
	defer f.Close()

	return ParseMerges(f)
}

func checkMergeRule(rule string) error {
	left, right, ok := strings.Cut(rule, " ")
	if !ok || left == "" || right == "" || strings.Contains(right, " ") {
		return ErrInvalidFormat
	}

	return nil
}

// Rank returns the priority of merging left with right; lower merges first.
func (m *MergeTable) Rank(left, right string) (int, bool) {
	return m.ranks.Get(left + " " + right)
}

// Len returns the number of merge rules.
func (m *MergeTable) Len() int {
	return m.ranks.Len()
}

// Rules yields the merge rules in rank order.
func (m *MergeTable) Rules() []string {
	rules := make([]string, 0, m.ranks.Len())
	for pair := m.ranks.Oldest(); pair != nil; pair = pair.Next() {
		rules = append(rules, pair.Key)
	}

	return rules
}
