package aggregate

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"news-pulse/internal/logger"
	"news-pulse/internal/types"
)

// Build produces the comparative report for one query from the ordered
// sequence of classified articles. failed is the number of articles whose
// classification was recorded as a failure and excluded.
//
// Given the same ordered input the output is byte-identical: topic sets are
// sorted, pairs are ordered by fetch index (i<j), and the overall-sentiment
// tie-break is the fixed priority positive > negative > neutral.
func Build(ctx context.Context, company string, articles []types.ClassifiedArticle, failed int) (*types.ComparativeReport, error) {
	ctx, span := logger.StartSpan(ctx, "aggregate-comparative-report")
	defer span.End()

	if len(articles) == 0 {
		return nil, &types.InsufficientDataError{Company: company, FailedArticles: failed}
	}

	distribution := tally(articles)
	overall := overallSentiment(distribution)
	comparisons := compareAll(articles)
	summary := coverageSummary(company, articles, distribution, comparisons)

	logger.Analysis(ctx, company, string(overall), len(articles), failed)

	return &types.ComparativeReport{
		Company:          company,
		Articles:         articles,
		Distribution:     distribution,
		Comparisons:      comparisons,
		CoverageSummary:  summary,
		OverallSentiment: overall,
		FailedArticles:   failed,
	}, nil
}

// tally counts sentiment labels across all classified articles
func tally(articles []types.ClassifiedArticle) types.SentimentDistribution {
	var d types.SentimentDistribution
	for _, a := range articles {
		switch a.Sentiment {
		case types.SentimentPositive:
			d.Positive++
		case types.SentimentNegative:
			d.Negative++
		default:
			d.Neutral++
		}
	}
	return d
}

// overallSentiment picks the majority label; ties resolve by the fixed
// priority positive > negative > neutral.
func overallSentiment(d types.SentimentDistribution) types.Sentiment {
	overall, best := types.SentimentPositive, d.Positive
	if d.Negative > best {
		overall, best = types.SentimentNegative, d.Negative
	}
	if d.Neutral > best {
		overall = types.SentimentNeutral
	}
	return overall
}

// compareAll generates one comparison per unordered article pair, i<j by
// fetch order. Fewer than two articles yields an empty (valid) slice.
func compareAll(articles []types.ClassifiedArticle) []types.TopicComparison {
	comparisons := []types.TopicComparison{}
	for i := 0; i < len(articles); i++ {
		for j := i + 1; j < len(articles); j++ {
			ti := sortedSet(articles[i].Topics)
			tj := sortedSet(articles[j].Topics)
			comparisons = append(comparisons, types.TopicComparison{
				ArticleI:     i,
				ArticleJ:     j,
				CommonTopics: intersect(ti, tj),
				UniqueToI:    subtract(ti, tj),
				UniqueToJ:    subtract(tj, ti),
			})
		}
	}
	return comparisons
}

// coverageSummary builds the narrative sentence fed to the renderer. It never
// references topics when none exist.
func coverageSummary(company string, articles []types.ClassifiedArticle, d types.SentimentDistribution, comparisons []types.TopicComparison) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Press coverage of %s spans %d %s: %d positive, %d negative and %d neutral.",
		company, len(articles), pluralize("article", len(articles)), d.Positive, d.Negative, d.Neutral)

	theme := dominantTheme(comparisons)
	switch {
	case len(theme) > 0:
		fmt.Fprintf(&b, " The dominant shared theme is %s.", humanJoin(theme))
	case len(comparisons) > 0 && anyTopics(articles):
		b.WriteString(" The articles diverge in focus, with no theme shared between any two.")
	}

	return b.String()
}

// dominantTheme returns the largest common-topics set across all pairs; ties
// break toward the earliest pair in comparison order.
func dominantTheme(comparisons []types.TopicComparison) []string {
	var theme []string
	for _, c := range comparisons {
		if len(c.CommonTopics) > len(theme) {
			theme = c.CommonTopics
		}
	}
	return theme
}

func anyTopics(articles []types.ClassifiedArticle) bool {
	for _, a := range articles {
		if len(a.Topics) > 0 {
			return true
		}
	}
	return false
}

// sortedSet returns a sorted, deduplicated copy
func sortedSet(topics []string) []string {
	out := make([]string, 0, len(topics))
	seen := map[string]struct{}{}
	for _, t := range topics {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// intersect returns elements present in both sorted sets
func intersect(a, b []string) []string {
	out := []string{}
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			out = append(out, a[i])
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return out
}

// subtract returns elements of sorted set a not present in sorted set b
func subtract(a, b []string) []string {
	out := []string{}
	i, j := 0, 0
	for i < len(a) {
		switch {
		case j >= len(b) || a[i] < b[j]:
			out = append(out, a[i])
			i++
		case a[i] == b[j]:
			i++
			j++
		default:
			j++
		}
	}
	return out
}

func pluralize(word string, n int) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

// humanJoin renders a topic list as natural language ("a, b and c")
func humanJoin(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}
