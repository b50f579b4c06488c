package dataset

import (
	"encoding/json"
	"path/filepath"
)

// DefaultSplitDir is where per-pair files are written.
const DefaultSplitDir = "pair_splits"

// PairSplit is the slice of a blindset belonging to one language pair.
type PairSplit struct {
	// File is the split file name, "<src>--<tgt>.jsonl".
	File string
	Rows []Row
}

// SplitByPair groups rows by language pair, in order of first appearance.
func SplitByPair(rows []Row) []PairSplit {
	index := make(map[string]int)
	var splits []PairSplit
	for _, row := range rows {
		file := row.Pair() + ".jsonl"
		i, ok := index[file]
		if !ok {
			i = len(splits)
			index[file] = i
			splits = append(splits, PairSplit{File: file})
		}
		splits[i].Rows = append(splits[i].Rows, row)
	}
	return splits
}

// WriteSplits writes one file per language pair into dir. Each line is the
// original record.
func WriteSplits(dir string, rows []Row) ([]PairSplit, error) {
	splits := SplitByPair(rows)
	for _, split := range splits {
		raws := make([]json.RawMessage, len(split.Rows))
		for i, row := range split.Rows {
			raws[i] = row.Raw()
		}
		if err := WriteJSONL(filepath.Join(dir, split.File), raws); err != nil {
			return nil, err
		}
	}
	return splits, nil
}
