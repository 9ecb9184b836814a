package unused

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// sortFindings orders findings by file, then line, then method name, so a
// report is stable across passes and worker schedules.
func sortFindings(findings []Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		if findings[i].File != findings[j].File {
			return findings[i].File < findings[j].File
		}
		if findings[i].Line != findings[j].Line {
			return findings[i].Line < findings[j].Line
		}
		return findings[i].Method < findings[j].Method
	})
}

func (a *Analyzer) summarize(prog Program, idx *usageIndex, findings []Finding) Summary {
	s := Summary{
		MethodsTotal:  len(prog.Declarations()),
		TotalFindings: len(findings),
	}

	var scores []float64
	for _, f := range findings {
		switch f.Variant {
		case VariantUnused:
			s.PlainUnused++
		case VariantHookSuggestion:
			s.HookSuggestions++
		case VariantCommand:
			s.CommandLike++
		}
		for _, c := range f.Suggestions {
			scores = append(scores, c.Score)
		}
	}

	for _, d := range prog.Declarations() {
		if a.shouldSkip(d) {
			s.MethodsSkipped++
		} else if idx.isUsed(d) {
			s.MethodsUsed++
		}
	}

	if len(scores) > 0 {
		s.MeanSuggestion = stat.Mean(scores, nil)
		max := scores[0]
		for _, v := range scores[1:] {
			if v > max {
				max = v
			}
		}
		s.MaxSuggestion = max
	}
	return s
}
