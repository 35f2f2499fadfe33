// Package merge folds per-chunk analysis results into one bounded,
// deduplicated document analysis.
package merge

import (
	"strings"

	"github.com/candlewick-labs/dataroom-mcp/models"
)

// Maximum lengths for the bounded array fields of a merged analysis.
const (
	MaxKeywords     = 7
	MaxCategories   = 3
	MaxTags         = 7
	MaxKeyInsights  = 5
	MaxApplications = 3
)

// Merge folds chunk analyses, in chunk order, into a single MergedAnalysis.
//
// The summary is last-write-wins: the final merged summary is whichever chunk
// was analyzed last. Keywords and key insights are concatenated across chunks
// in order. Categories, tags, and potential applications are unioned with the
// first occurrence keeping its position. Tone and audience descriptions are
// joined with a space and trimmed. Bounded fields are then truncated to their
// maxima. Merge is pure: the same input always yields the same output, and no
// input slice is mutated.
func Merge(results []models.ChunkAnalysis) models.MergedAnalysis {
	var merged models.MergedAnalysis
	var tone, audience []string

	seenCategories := make(map[string]struct{})
	seenTags := make(map[string]struct{})
	seenApplications := make(map[string]struct{})

	for _, r := range results {
		merged.Summary = r.Summary
		merged.Keywords = append(merged.Keywords, r.Keywords...)
		merged.KeyInsights = append(merged.KeyInsights, r.KeyInsights...)
		merged.Categories = appendUnique(merged.Categories, seenCategories, r.Categories)
		merged.Tags = appendUnique(merged.Tags, seenTags, r.Tags)
		merged.PotentialApplications = appendUnique(merged.PotentialApplications, seenApplications, r.PotentialApplications)
		tone = append(tone, r.ToneAndStyle)
		audience = append(audience, r.TargetAudience)
	}

	merged.Summary = strings.TrimSpace(merged.Summary)
	merged.ToneAndStyle = strings.TrimSpace(strings.Join(tone, " "))
	merged.TargetAudience = strings.TrimSpace(strings.Join(audience, " "))

	merged.Keywords = truncateKeywords(merged.Keywords, MaxKeywords)
	merged.Categories = truncate(merged.Categories, MaxCategories)
	merged.Tags = truncate(merged.Tags, MaxTags)
	merged.KeyInsights = truncate(merged.KeyInsights, MaxKeyInsights)
	merged.PotentialApplications = truncate(merged.PotentialApplications, MaxApplications)

	return merged
}

// appendUnique adds values to dst in order, skipping any value already seen.
func appendUnique(dst []string, seen map[string]struct{}, values []string) []string {
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		dst = append(dst, v)
	}
	return dst
}

func truncate(s []string, max int) []string {
	if len(s) > max {
		return s[:max]
	}
	return s
}

func truncateKeywords(s []models.Keyword, max int) []models.Keyword {
	if len(s) > max {
		return s[:max]
	}
	return s
}
