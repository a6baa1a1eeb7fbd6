package topics

import (
	"math"
	"sort"

	"github.com/trendai/watchdog/watchdog/keyword"
)

// TF-IDF features with k-means clustering. Centroids are seeded by farthest-first traversal from the first document, so results are deterministic without a random source.
type KMeans struct {
	MaxFeatures int
	MaxIter     int
	TopTerms    int
	StopWords   map[string]bool
}

var _ Discoverer = (*KMeans)(nil)

func NewKMeans() *KMeans {
	return &KMeans{
		MaxFeatures: 1000,
		MaxIter:     50,
		TopTerms:    5,
		StopWords:   englishStopWords,
	}
}

func (km *KMeans) Discover(texts []string, k int) Assignment {
	asg := Assignment{Labels: make([]int, len(texts))}
	if len(texts) == 0 || k <= 0 {
		return asg
	}
	vocab, vecs := km.vectorize(texts)
	k = min(k, len(texts))

	centroids := seedCentroids(vecs, k)
	for iter := 0; iter < km.MaxIter; iter++ {
		changed := false
		for i, v := range vecs {
			if best := nearest(v, centroids); best != asg.Labels[i] {
				asg.Labels[i] = best
				changed = true
			}
		}
		if iter > 0 && !changed {
			break
		}
		centroids = recompute(vecs, asg.Labels, centroids)
	}

	asg.Keywords = make([][]string, len(centroids))
	for c, cen := range centroids {
		asg.Keywords[c] = topTerms(cen, vocab, km.TopTerms)
	}
	return asg
}

// Builds L2-normalized TF-IDF vectors, using smoothed IDF: ln((1+n)/(1+df)) + 1
func (km *KMeans) vectorize(texts []string) ([]string, [][]float64) {
	docs := make([][]string, len(texts))
	corpusFreq := make(map[string]int)
	docFreq := make(map[string]int)
	for i, t := range texts {
		seen := make(map[string]bool)
		for _, tok := range keyword.TokenizeText(t) {
			if len([]rune(tok)) < 2 || km.StopWords[tok] {
				continue
			}
			docs[i] = append(docs[i], tok)
			corpusFreq[tok]++
			if !seen[tok] {
				docFreq[tok]++
				seen[tok] = true
			}
		}
	}

	vocab := make([]string, 0, len(corpusFreq))
	for term := range corpusFreq {
		vocab = append(vocab, term)
	}
	sort.Slice(vocab, func(i, j int) bool {
		if corpusFreq[vocab[i]] != corpusFreq[vocab[j]] {
			return corpusFreq[vocab[i]] > corpusFreq[vocab[j]]
		}
		return vocab[i] < vocab[j]
	})
	if km.MaxFeatures > 0 && len(vocab) > km.MaxFeatures {
		vocab = vocab[:km.MaxFeatures]
	}
	sort.Strings(vocab)
	index := make(map[string]int, len(vocab))
	for i, term := range vocab {
		index[term] = i
	}

	n := float64(len(texts))
	vecs := make([][]float64, len(texts))
	for i, toks := range docs {
		v := make([]float64, len(vocab))
		for _, tok := range toks {
			if j, ok := index[tok]; ok {
				v[j]++
			}
		}
		for j, term := range vocab {
			if v[j] > 0 {
				v[j] *= math.Log((1+n)/(1+float64(docFreq[term]))) + 1
			}
		}
		normalize(v)
		vecs[i] = v
	}
	return vocab, vecs
}

func normalize(v []float64) {
	ss := 0.0
	for _, x := range v {
		ss += x * x
	}
	if ss == 0 {
		return
	}
	norm := math.Sqrt(ss)
	for i := range v {
		v[i] /= norm
	}
}

func sqDist(a, b []float64) float64 {
	d := 0.0
	for i := range a {
		diff := a[i] - b[i]
		d += diff * diff
	}
	return d
}

func nearest(v []float64, centroids [][]float64) int {
	best, bestDist := 0, math.Inf(1)
	for c, cen := range centroids {
		if d := sqDist(v, cen); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func seedCentroids(vecs [][]float64, k int) [][]float64 {
	centroids := [][]float64{clone(vecs[0])}
	chosen := map[int]bool{0: true}
	for len(centroids) < k {
		far, farDist := -1, -1.0
		for i, v := range vecs {
			if chosen[i] {
				continue
			}
			d := sqDist(v, centroids[nearest(v, centroids)])
			if d > farDist {
				far, farDist = i, d
			}
		}
		if far < 0 {
			break
		}
		chosen[far] = true
		centroids = append(centroids, clone(vecs[far]))
	}
	return centroids
}

// Mean of member vectors per cluster; clusters which lost all members keep their previous centroid
func recompute(vecs [][]float64, labels []int, prev [][]float64) [][]float64 {
	dim := len(vecs[0])
	sums := make([][]float64, len(prev))
	counts := make([]int, len(prev))
	for c := range sums {
		sums[c] = make([]float64, dim)
	}
	for i, v := range vecs {
		c := labels[i]
		counts[c]++
		for j, x := range v {
			sums[c][j] += x
		}
	}
	for c := range sums {
		if counts[c] == 0 {
			sums[c] = prev[c]
			continue
		}
		for j := range sums[c] {
			sums[c][j] /= float64(counts[c])
		}
	}
	return sums
}

func topTerms(centroid []float64, vocab []string, n int) []string {
	idx := make([]int, 0, len(centroid))
	for j, w := range centroid {
		if w > 0 {
			idx = append(idx, j)
		}
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return centroid[idx[a]] > centroid[idx[b]]
	})
	var out []string
	for _, j := range idx {
		if len(out) >= n {
			break
		}
		out = append(out, vocab[j])
	}
	return out
}

func clone(v []float64) []float64 {
	return append([]float64(nil), v...)
}
