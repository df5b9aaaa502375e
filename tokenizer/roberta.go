package tokenizer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// OccurrenceRanks is the RoBERTa frequency overlay: a bijection between
// vocabulary ids and their corpus-occurrence ranks, plus the occurrence
// counts themselves. Line order in the dictionary file defines the rank,
// starting at 0 for the first line. Immutable after construction; not
// consulted by encode or decode.
type OccurrenceRanks struct {
	rankByID  map[int32]int
	idByRank  []int32
	countByID map[int32]int64
}

// ParseOccurrenceRanks reads a dictionary of whitespace-separated
// "id occurrence" lines.
func ParseOccurrenceRanks(r io.Reader) (*OccurrenceRanks, error) {
	o := &OccurrenceRanks{
		rankByID:  make(map[int32]int),
		countByID: make(map[int32]int64),
	}

	scanner := bufio.NewScanner(r)

	var line int
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		fields := strings.Fields(text)
		if len(fields) != 2 {
			return nil, fmt.Errorf("%w: dictionary line %d: %q", ErrInvalidFormat, line, text)
		}

		id, err := strconv.ParseInt(fields[0], 10, 32)
		if err != nil || id < 0 {
			return nil, fmt.Errorf("%w: dictionary line %d: bad id %q", ErrInvalidFormat, line, fields[0])
		}

		count, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: dictionary line %d: bad occurrence %q", ErrInvalidFormat, line, fields[1])
		}

		if _, ok := o.rankByID[int32(id)]; ok {
			return nil, fmt.Errorf("%w: dictionary line %d: duplicate id %d", ErrInvalidFormat, line, id)
		}

		o.rankByID[int32(id)] = len(o.idByRank)
		o.countByID[int32(id)] = count
		o.idByRank = append(o.idByRank, int32(id))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading dictionary: %w", err)
	}

	return o, nil
}

// LoadOccurrenceRanks reads a dictionary file from disk.
func LoadOccurrenceRanks(path string) (*OccurrenceRanks, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading dictionary: %w", err)
	}
	defer f.Close()

	return ParseOccurrenceRanks(f)
}

// Rank returns the occurrence rank of an id.
func (o *OccurrenceRanks) Rank(id int32) (int, bool) {
	rank, ok := o.rankByID[id]
	return rank, ok
}

// ID returns the id holding a given rank.
func (o *OccurrenceRanks) ID(rank int) (int32, bool) {
	if rank < 0 || rank >= len(o.idByRank) {
		return 0, false
	}

	return o.idByRank[rank], true
}

// Occurrence returns the corpus occurrence count of an id.
func (o *OccurrenceRanks) Occurrence(id int32) (int64, bool) {
	count, ok := o.countByID[id]
	return count, ok
}

// Len returns the number of dictionary entries.
func (o *OccurrenceRanks) Len() int {
	return len(o.idByRank)
}
