package detect

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	appErrors "github.com/mrz1836/go-syncguard/internal/errors"
	"github.com/mrz1836/go-syncguard/internal/logging"
	"github.com/mrz1836/go-syncguard/internal/profile"
)

// tieTolerance is how close two candidate profiles may be before the
// association is considered ambiguous.
const tieTolerance = time.Second

// artifactName matches Unison state files: a two-letter prefix and a hash.
var artifactName = regexp.MustCompile(`^(ar|fp|lk|tm)[0-9A-Fa-f]{6,}$`)

// textLeak matches readable content that should never appear in binary state.
var textLeak = regexp.MustCompile(`(?m)^(root|ignore|auto|batch)\s*=|<\?xml|<html|<!DOCTYPE`)

//nolint:gochecknoglobals // fixed prefix table
var prefixKinds = map[string]ArtifactKind{
	"ar": KindArchive,
	"fp": KindFingerprint,
	"lk": KindLock,
	"tm": KindTemp,
}

// Classify returns the artifact kind encoded in a Unison state file name.
func Classify(name string) (ArtifactKind, bool) {
	m := artifactName.FindStringSubmatch(name)
	if m == nil {
		return "", false
	}
	return prefixKinds[m[1]], true
}

// ListArtifacts returns every Unison state file in dir, sorted by name, with
// RelatedProfile filled in where the association is unambiguous.
func (d *Detector) ListArtifacts(dir string) ([]Artifact, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, appErrors.DirectoryReadError(dir, err)
	}

	profiles := make(map[string]time.Time)
	var artifacts []Artifact
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			// removed between ReadDir and Info
			continue
		}

		name := entry.Name()
		if filepath.Ext(name) == profile.Extension {
			profiles[profile.NameFromPath(name)] = info.ModTime()
			continue
		}

		kind, ok := Classify(name)
		if !ok {
			continue
		}
		artifacts = append(artifacts, Artifact{
			Kind:         kind,
			Name:         name,
			Path:         filepath.Join(dir, name),
			SizeBytes:    info.Size(),
			LastModified: info.ModTime(),
		})
	}

	for i := range artifacts {
		artifacts[i].RelatedProfile = Associate(artifacts[i].LastModified, profiles, d.thresholds.AssociationWindow)
	}

	sort.Slice(artifacts, func(i, j int) bool { return artifacts[i].Name < artifacts[j].Name })
	return artifacts, nil
}

// Associate returns the profile whose modification time is closest to at and
// within window. Two candidates closer together than one second make the
// answer ambiguous and yield "". The result is advisory only.
func Associate(at time.Time, profiles map[string]time.Time, window time.Duration) string {
	best, second := "", ""
	bestDist, secondDist := time.Duration(math.MaxInt64), time.Duration(math.MaxInt64)

	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		dist := at.Sub(profiles[name])
		if dist < 0 {
			dist = -dist
		}
		if window > 0 && dist > window {
			continue
		}
		switch {
		case dist < bestDist:
			second, secondDist = best, bestDist
			best, bestDist = name, dist
		case dist < secondDist:
			second, secondDist = name, dist
		}
	}

	if best == "" {
		return ""
	}
	if second != "" && secondDist-bestDist < tieTolerance {
		return ""
	}
	return best
}

// DetectArchiveSet inspects every artifact in dir. With a non-empty
// profileFilter only artifacts associated with that profile are considered.
func (d *Detector) DetectArchiveSet(dir, profileFilter string) (*ArchiveSetResult, error) {
	artifacts, err := d.ListArtifacts(dir)
	if err != nil {
		return nil, err
	}

	result := &ArchiveSetResult{
		Directory:     dir,
		ProfileFilter: profileFilter,
		ByKind:        make(map[ArtifactKind]int),
		Corrupted:     []ArtifactResult{},
	}

	for _, artifact := range artifacts {
		if profileFilter != "" && artifact.RelatedProfile != profileFilter {
			continue
		}
		result.TotalArtifacts++
		result.ByKind[artifact.Kind]++
		result.TotalBytes += artifact.SizeBytes

		checked, err := d.CheckArtifact(artifact)
		if err != nil {
			// unreadable samples are reported as corruption, not as a failed scan
			checked = &ArtifactResult{
				Artifact:    artifact,
				IsCorrupted: true,
				Issues:      []Issue{{Rule: "read", Description: err.Error()}},
			}
		}
		if checked.IsCorrupted {
			result.Corrupted = append(result.Corrupted, *checked)
		}
	}

	d.logger.WithFields(logrus.Fields{
		logging.StandardFields.Operation:  "detect_archives",
		logging.StandardFields.FileCount:  result.TotalArtifacts,
		logging.StandardFields.IssueCount: len(result.Corrupted),
		"profile_filter":                  profileFilter,
	}).Debug("Archive scan completed")

	return result, nil
}

// CheckArtifact applies the size, age, and content heuristics to one artifact.
func (d *Detector) CheckArtifact(artifact Artifact) (*ArtifactResult, error) {
	result := &ArtifactResult{Artifact: artifact, Issues: []Issue{}}
	t := d.thresholds
	age := d.now().Sub(artifact.LastModified)

	var maxBytes int64
	switch artifact.Kind {
	case KindFingerprint:
		maxBytes = t.FingerprintMaxBytes.Int64()
	case KindArchive, KindTemp:
		maxBytes = t.ArchiveMaxBytes.Int64()
	case KindLock, KindProfile:
	}
	if maxBytes > 0 && artifact.SizeBytes > maxBytes {
		result.add("size", fmt.Sprintf("%s file is %s, above the %s limit",
			artifact.Kind, humanize.IBytes(uint64(artifact.SizeBytes)), humanize.IBytes(uint64(maxBytes)))) //nolint:gosec // sizes are non-negative
	}
	if artifact.Kind != KindLock && artifact.SizeBytes < t.MinBytes.Int64() {
		result.add("size", fmt.Sprintf("%s file is suspiciously small (%s)",
			artifact.Kind, humanize.IBytes(uint64(artifact.SizeBytes)))) //nolint:gosec // sizes are non-negative
	}

	switch artifact.Kind {
	case KindLock, KindTemp:
		if t.LockStaleAfter > 0 && age > t.LockStaleAfter {
			result.add("age", fmt.Sprintf("Stale %s file last modified %s, a previous run probably crashed",
				artifact.Kind, humanize.RelTime(artifact.LastModified, d.now(), "ago", "from now")))
		}
	case KindArchive, KindFingerprint, KindProfile:
		if t.StaleAfter > 0 && age > t.StaleAfter {
			result.add("age", fmt.Sprintf("%s file not modified since %s, likely stale",
				artifact.Kind, humanize.RelTime(artifact.LastModified, d.now(), "ago", "from now")))
		}
	}

	if artifact.Kind != KindLock && artifact.SizeBytes > 0 {
		if err := d.checkContent(result); err != nil {
			return nil, err
		}
	}

	result.IsCorrupted = len(result.Issues) > 0
	if result.IsCorrupted {
		d.logger.WithFields(logrus.Fields{
			logging.StandardFields.Operation:    "detect_artifact",
			logging.StandardFields.ArtifactPath: artifact.Path,
			logging.StandardFields.ArtifactKind: string(artifact.Kind),
			logging.StandardFields.IssueCount:   len(result.Issues),
		}).Warn("Artifact corruption detected")
	}
	return result, nil
}

// checkContent samples the head and tail of the file.
func (d *Detector) checkContent(result *ArtifactResult) error {
	sample, err := readSample(result.Path, result.SizeBytes, d.thresholds.SampleBytes)
	if err != nil {
		return err
	}
	if len(sample) == 0 {
		return nil
	}

	nulls, binary := 0, 0
	for _, b := range sample {
		switch {
		case b == 0:
			nulls++
			binary++
		case b < 0x09 || (b > 0x0d && b < 0x20) || b == 0x7f:
			binary++
		}
	}

	ratio := float64(nulls) / float64(len(sample))
	if ratio > d.thresholds.NullByteRatio {
		result.add("null-bytes", fmt.Sprintf("%.0f%% of sampled bytes are null", ratio*100))
	}

	if loc := textLeak.FindIndex(sample); loc != nil {
		result.add("text-content", "Sampled content contains profile or markup text where binary data is expected")
		result.Issues[len(result.Issues)-1].Evidence = string(sample[loc[0]:loc[1]])
	} else if binary == 0 && result.Kind != KindTemp && int64(len(sample)) >= d.thresholds.MinBytes.Int64() {
		result.add("text-content", "Sampled content is plain text where binary data is expected")
	}
	return nil
}

func (r *ArtifactResult) add(rule, description string) {
	r.Issues = append(r.Issues, Issue{Rule: rule, Description: description})
}

// readSample returns the first and last n bytes of path; a file shorter than
// 2n is returned whole.
func readSample(path string, size int64, n int) ([]byte, error) {
	file, err := os.Open(path) //#nosec G304 -- artifact paths come from the unison directory
	if err != nil {
		return nil, appErrors.FileOpenError(path, err)
	}
	defer func() { _ = file.Close() }()

	if size <= int64(2*n) {
		data, err := io.ReadAll(file)
		if err != nil {
			return nil, appErrors.FileReadError(path, err)
		}
		return data, nil
	}

	sample := make([]byte, 2*n)
	if _, err := io.ReadFull(file, sample[:n]); err != nil {
		return nil, appErrors.FileReadError(path, err)
	}
	if _, err := file.ReadAt(sample[n:], size-int64(n)); err != nil && !errors.Is(err, io.EOF) {
		return nil, appErrors.FileReadError(path, err)
	}
	return sample, nil
}
