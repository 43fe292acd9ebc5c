package validation

import (
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"

	"github.com/mrz1836/go-syncguard/internal/config"
	appErrors "github.com/mrz1836/go-syncguard/internal/errors"
)

// recommendationRule derives zero or more recommendations from a report.
type recommendationRule func(r *Report, cfg *config.Config) []Recommendation

//nolint:gochecknoglobals // static rule table
var recommendationRules = []recommendationRule{
	directoryRecommendations,
	profileRecommendations,
	rootPathRecommendations,
	archiveRecommendations,
	ignoreRecommendations,
	volumeRecommendations,
}

// recommend evaluates every rule and orders the result by priority.
func recommend(r *Report, cfg *config.Config) []Recommendation {
	out := []Recommendation{}
	for _, rule := range recommendationRules {
		out = append(out, rule(r, cfg)...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority.rank() < out[j].Priority.rank()
	})
	return out
}

func directoryRecommendations(r *Report, _ *config.Config) []Recommendation {
	if r.UnisonDirectory.Success {
		return nil
	}
	return []Recommendation{{
		Priority: PriorityHigh,
		Category: string(appErrors.KindDirectoryAccessError),
		Message:  "Make the unison directory exist and be readable and writable by the sync user",
	}}
}

func profileRecommendations(r *Report, _ *config.Config) []Recommendation {
	var out []Recommendation
	for _, name := range sortedKeys(r.Profiles) {
		check := r.Profiles[name]
		if check.Success {
			continue
		}
		rec := Recommendation{Priority: PriorityHigh, Category: check.Issue, Command: check.AutoFix}
		switch {
		case check.Issue == IssueProfileMissing && check.AutoFix != "":
			rec.Message = fmt.Sprintf("Create profile %s from its declaration", name)
		case check.Issue == IssueProfileMissing:
			rec.Message = fmt.Sprintf("Declare profile %s in the configuration file", name)
		case check.AutoFix != "":
			rec.Message = fmt.Sprintf("Back up and regenerate corrupted profile %s", name)
		default:
			rec.Message = fmt.Sprintf("Declare profile %s in the configuration file so it can be regenerated", name)
		}
		out = append(out, rec)
	}
	return out
}

func rootPathRecommendations(r *Report, _ *config.Config) []Recommendation {
	var out []Recommendation
	for _, name := range sortedKeys(r.RootPaths) {
		check := r.RootPaths[name]
		if check.Success {
			continue
		}
		rec := Recommendation{Priority: PriorityHigh, Category: check.Issue, Command: check.AutoFix}
		if check.AutoFix != "" {
			rec.Message = fmt.Sprintf("Regenerate profile %s so its roots match the declaration", name)
		} else {
			rec.Message = fmt.Sprintf("Fix the declared roots of %s: source must be a sync hub, destination a cloud folder", name)
		}
		out = append(out, rec)
	}
	return out
}

func archiveRecommendations(r *Report, _ *config.Config) []Recommendation {
	if r.Archives.Success || r.archiveSet == nil {
		return nil
	}
	return []Recommendation{{
		Priority: PriorityMedium,
		Category: r.Archives.Issue,
		Message:  fmt.Sprintf("Back up and remove %d corrupted archive file(s); Unison rebuilds them on the next run", len(r.archiveSet.Corrupted)),
		Command:  r.Archives.AutoFix,
	}}
}

func ignoreRecommendations(r *Report, _ *config.Config) []Recommendation {
	var out []Recommendation
	for _, name := range sortedKeys(r.IgnorePatterns) {
		check := r.IgnorePatterns[name]
		if check.Success {
			continue
		}
		out = append(out, Recommendation{
			Priority: PriorityMedium,
			Category: check.Issue,
			Message:  fmt.Sprintf("Add the missing required ignore patterns to %s", name),
			Command:  check.AutoFix,
		})
	}
	return out
}

func volumeRecommendations(r *Report, cfg *config.Config) []Recommendation {
	if r.archiveSet == nil {
		return nil
	}
	limit := cfg.Thresholds.ArchiveMaxBytes.Int64()
	if limit <= 0 || r.archiveSet.TotalBytes <= limit/2 {
		return nil
	}
	return []Recommendation{{
		Priority: PriorityLow,
		Category: "volume",
		Message: fmt.Sprintf("Archive files total %s; add ignore patterns for large generated directories to keep sync state small",
			humanize.IBytes(uint64(r.archiveSet.TotalBytes))),
	}}
}
