package evaluation

import (
	"hash/fnv"
	"math/rand/v2"
)

// BlindOrder returns variants shuffled by a seed derived from the session and
// paper. The same session sees the same order every time it opens the paper.
func BlindOrder(sessionID, paperID string, variants []string) []string {
	out := make([]string, len(variants))
	copy(out, variants)

	h := fnv.New64a()
	h.Write([]byte(sessionID))
	h.Write([]byte{0})
	h.Write([]byte(paperID))
	seed := h.Sum64()

	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
