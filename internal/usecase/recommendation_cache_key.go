package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/nihalsingh571/internrecom/internal/repository"
)

// RecommendationsCacheKey fingerprints everything the ranking depends on:
// the candidate's skills and assessment scores, the visible listing set,
// and the requested cutoff. Any change to the inputs yields a new key, so
// stale entries simply stop being read and expire on their own.
func RecommendationsCacheKey(profile repository.CandidateProfile, listings []repository.Listing, topK int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "candidate=%s;", profile.ID)

	names := profile.SkillNames()
	sort.Strings(names)
	fmt.Fprintf(&b, "skills=%s;", strings.Join(names, ","))
	fmt.Fprintf(&b, "acc=%.6f;speed=%.6f;rec=%.6f;topk=%d;", profile.Accuracy, profile.SpeedScore, profile.RecencyScore, topK)

	for _, l := range listings {
		rating := "-"
		if l.RecruiterRating != nil {
			rating = fmt.Sprintf("%.4f", *l.RecruiterRating)
		}
		fmt.Fprintf(&b, "l=%s:%s:%.4f;", l.ID, rating, l.RecencyScore)
	}

	sum := sha256.Sum256([]byte(b.String()))
	return "recommendations:" + hex.EncodeToString(sum[:])
}
