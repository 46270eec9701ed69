package analytics

import (
	"cmp"
	"slices"
	"strings"

	"github.com/array/applications-console/internal/integrations/accountapi"
)

const (
	TopCities       = 8
	CityLabelBudget = 12

	TopBranches       = 6
	BranchLabelBudget = 10

	OccupationLabelBudget = 10
)

// rankTop counts apps by the trimmed, upper-cased value of valueOf and returns the n
// largest groups, ordered by count descending then key ascending.
func rankTop(apps []accountapi.AccountApplication, valueOf func(*accountapi.AccountApplication) *string, n, budget int) []RankedEntry {
	counts := make(map[string]int)
	for i := range apps {
		key := BucketUnknown
		if v := valueOf(&apps[i]); v != nil {
			if s := strings.ToUpper(strings.TrimSpace(*v)); s != "" {
				key = s
			}
		}
		counts[key]++
	}

	out := make([]RankedEntry, 0, len(counts))
	for key, count := range counts {
		out = append(out, RankedEntry{Key: key, Count: count})
	}
	slices.SortFunc(out, func(a, b RankedEntry) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return strings.Compare(a.Key, b.Key)
	})
	if len(out) > n {
		out = out[:n]
	}
	for i := range out {
		out[i].Label = truncateLabel(out[i].Key, budget)
		out[i].Color = PaletteColor(i)
	}
	return out
}

// truncateLabel cuts s to budget runes and marks the cut with "..."
func truncateLabel(s string, budget int) string {
	r := []rune(s)
	if len(r) <= budget {
		return s
	}
	return string(r[:budget]) + "..."
}

func cityRanking(apps []accountapi.AccountApplication) []RankedEntry {
	return rankTop(apps, func(a *accountapi.AccountApplication) *string { return a.City }, TopCities, CityLabelBudget)
}

func branchRanking(apps []accountapi.AccountApplication) []RankedEntry {
	return rankTop(apps, func(a *accountapi.AccountApplication) *string { return a.BranchCity }, TopBranches, BranchLabelBudget)
}
