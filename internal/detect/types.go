// Package detect inspects Unison profiles and archive files for signs of
// corruption.
//
// Detection is heuristic: false positives are tolerated because the remedy
// (backup then regenerate or remove) is reversible, while thresholds stay
// conservative to bound false negatives.
package detect

import "time"

// ArtifactKind classifies a file in the unison directory.
type ArtifactKind string

// Artifact kinds
const (
	KindProfile     ArtifactKind = "profile"
	KindArchive     ArtifactKind = "archive"
	KindFingerprint ArtifactKind = "fingerprint"
	KindLock        ArtifactKind = "lock"
	KindTemp        ArtifactKind = "temp"
)

// Issue is one detected anomaly.
type Issue struct {
	Rule        string `json:"rule"`
	Description string `json:"description"`
	Line        int    `json:"line,omitempty"`
	Evidence    string `json:"evidence,omitempty"`
}

// ProfileResult is the outcome of inspecting one profile.
type ProfileResult struct {
	Name              string  `json:"name"`
	Path              string  `json:"path"`
	SizeBytes         int64   `json:"sizeBytes"`
	RootCount         int     `json:"rootCount"`
	IsCorrupted       bool    `json:"isCorrupted"`
	HasValidStructure bool    `json:"hasValidStructure"`
	Issues            []Issue `json:"issues"`
}

// Descriptions returns the issue descriptions in order.
func (r *ProfileResult) Descriptions() []string {
	return descriptions(r.Issues)
}

// Artifact is a non-profile file written by Unison.
type Artifact struct {
	Kind           ArtifactKind `json:"kind"`
	Name           string       `json:"name"`
	Path           string       `json:"path"`
	SizeBytes      int64        `json:"sizeBytes"`
	LastModified   time.Time    `json:"lastModified"`
	RelatedProfile string       `json:"relatedProfileName,omitempty"`
}

// ArtifactResult is the outcome of inspecting one artifact.
type ArtifactResult struct {
	Artifact

	IsCorrupted bool    `json:"isCorrupted"`
	Issues      []Issue `json:"issues"`
}

// Descriptions returns the issue descriptions in order.
func (r *ArtifactResult) Descriptions() []string {
	return descriptions(r.Issues)
}

// ArchiveSetResult summarizes every artifact in a directory.
type ArchiveSetResult struct {
	Directory      string               `json:"directory"`
	ProfileFilter  string               `json:"profileFilter,omitempty"`
	TotalArtifacts int                  `json:"totalArtifacts"`
	ByKind         map[ArtifactKind]int `json:"byKind"`
	TotalBytes     int64                `json:"totalBytes"`
	Corrupted      []ArtifactResult     `json:"corrupted"`
}

func descriptions(issues []Issue) []string {
	out := make([]string, 0, len(issues))
	for _, issue := range issues {
		out = append(out, issue.Description)
	}
	return out
}
