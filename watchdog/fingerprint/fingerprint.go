package fingerprint

import (
	"sort"

	"github.com/trendai/watchdog/watchdog/helpers"
	"github.com/trendai/watchdog/watchdog/keyword"
)

// Default Jaccard threshold above which two posts count as near-duplicates
const DefaultDuplicateThreshold = 0.85

// Fewer posts than this never produce duplicate pairs
const MinPostsForDuplicates = 3

// Minimal view of a post needed for fingerprinting
type TextRef struct {
	ID   string
	Text string
}

// Stable hash of the normalized text. Texts which differ only by case or whitespace share a fingerprint.
func Fingerprint(text string) string {
	return helpers.HashOfString(keyword.NormalizeText(text))
}

// Groups posts by exact equality of normalized text.
//
// Cluster ids are assigned in order of first occurrence, counting from 1. Every post id in the input appears in the output, including singletons; callers decide which clusters are significant.
func Cluster(refs []TextRef) map[string]int {
	out := make(map[string]int, len(refs))
	byText := make(map[string]int)
	next := 1
	for _, r := range refs {
		norm := keyword.NormalizeText(r.Text)
		cid, ok := byText[norm]
		if !ok {
			cid = next
			next++
			byText[norm] = cid
		}
		out[r.ID] = cid
	}
	return out
}

type ClusterInfo struct {
	ClusterID int      `json:"cluster_id"`
	Size      int      `json:"size"`
	PostIDs   []string `json:"post_ids"`
}

// Returns clusters holding more than one post, largest first (ties broken by cluster id).
func SignificantClusters(assignments map[string]int) []ClusterInfo {
	members := make(map[int][]string)
	for id, cid := range assignments {
		members[cid] = append(members[cid], id)
	}
	var out []ClusterInfo
	for cid, ids := range members {
		if len(ids) < 2 {
			continue
		}
		sort.Strings(ids)
		out = append(out, ClusterInfo{ClusterID: cid, Size: len(ids), PostIDs: ids})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Size != out[j].Size {
			return out[i].Size > out[j].Size
		}
		return out[i].ClusterID < out[j].ClusterID
	})
	return out
}

type DuplicatePair struct {
	A          string  `json:"a"`
	B          string  `json:"b"`
	Similarity float64 `json:"similarity"`
}

// Pairwise fuzzy comparison of all posts; pairs with similarity strictly above the threshold are returned in input order.
//
// This is quadratic in the number of posts, and is only used for explicit duplicate reporting, not for cluster assignment.
func DuplicatePairs(refs []TextRef, threshold float64) []DuplicatePair {
	if len(refs) < MinPostsForDuplicates {
		return nil
	}
	sets := make([]map[string]bool, len(refs))
	for i, r := range refs {
		sets[i] = tokenSet(r.Text)
	}
	var out []DuplicatePair
	for i := 0; i < len(refs); i++ {
		for j := i + 1; j < len(refs); j++ {
			sim := jaccard(sets[i], sets[j])
			if sim > threshold {
				out = append(out, DuplicatePair{A: refs[i].ID, B: refs[j].ID, Similarity: helpers.Round(sim, 3)})
			}
		}
	}
	return out
}

// Fraction of texts which repeat an earlier text (1 - unique/total), after normalization. Zero for empty input.
func DuplicateRate(texts []string) float64 {
	if len(texts) == 0 {
		return 0
	}
	uniq := make(map[string]bool, len(texts))
	for _, t := range texts {
		uniq[keyword.NormalizeText(t)] = true
	}
	return 1 - float64(len(uniq))/float64(len(texts))
}
