package matching

import (
	"math"
	"sort"

	"github.com/google/uuid"
)

const (
	// MustHaveWeight and NiceToHaveWeight split the 0-100 score between the
	// two requirement tiers.
	MustHaveWeight   = 70.0
	NiceToHaveWeight = 30.0

	// MinScore is the cut-off below which candidates are dropped from the
	// ranked output. Scoring is graduated: a candidate missing must-have
	// skills keeps partial credit instead of being zeroed out, and this
	// threshold discards the noise at the bottom.
	MinScore = 20
)

type RequiredSkill struct {
	SkillID   uuid.UUID
	SkillName string
	RawLabel  string
	Mandatory bool
}

type CandidateSkill struct {
	SkillID   uuid.UUID
	SkillName string
	RawLabel  string
}

type Candidate struct {
	ProfileID      uuid.UUID
	Skills         []CandidateSkill
	ExperienceText string
}

type SkillRef struct {
	SkillID   uuid.UUID
	SkillName string
}

type CandidateMatch struct {
	ProfileID         uuid.UUID
	Score             int
	MandatoryMissing  bool
	MatchedMustHave   []SkillRef
	MissingMustHave   []SkillRef
	MatchedNiceToHave []SkillRef
	MissingNiceToHave []SkillRef
}

// Score computes the weighted overlap between a job's requirements and one
// candidate. A requirement matches when the candidate holds the same
// canonical skill id, or, when canonical data is sparse, when a fuzzy
// text/synonym match hits the candidate's raw labels or experience text.
func Score(reqs []RequiredSkill, cand Candidate) CandidateMatch {
	bySkillID := make(map[uuid.UUID]struct{}, len(cand.Skills))
	for _, cs := range cand.Skills {
		if cs.SkillID != uuid.Nil {
			bySkillID[cs.SkillID] = struct{}{}
		}
	}

	out := CandidateMatch{
		ProfileID:         cand.ProfileID,
		MatchedMustHave:   make([]SkillRef, 0),
		MissingMustHave:   make([]SkillRef, 0),
		MatchedNiceToHave: make([]SkillRef, 0),
		MissingNiceToHave: make([]SkillRef, 0),
	}

	var mustReq, mustMatch, niceReq, niceMatch int
	for _, r := range reqs {
		matched := false
		if r.SkillID != uuid.Nil {
			_, matched = bySkillID[r.SkillID]
		}
		if !matched {
			matched = fuzzyMatches(r, cand)
		}

		ref := SkillRef{SkillID: r.SkillID, SkillName: r.SkillName}
		if r.Mandatory {
			mustReq++
			if matched {
				mustMatch++
				out.MatchedMustHave = append(out.MatchedMustHave, ref)
			} else {
				out.MissingMustHave = append(out.MissingMustHave, ref)
			}
		} else {
			niceReq++
			if matched {
				niceMatch++
				out.MatchedNiceToHave = append(out.MatchedNiceToHave, ref)
			} else {
				out.MissingNiceToHave = append(out.MissingNiceToHave, ref)
			}
		}
	}

	mustPart := 1.0
	if mustReq > 0 {
		mustPart = float64(mustMatch) / float64(mustReq)
	}
	nicePart := 1.0
	if niceReq > 0 {
		nicePart = float64(niceMatch) / float64(niceReq)
	}

	score := int(math.Round(MustHaveWeight*mustPart + NiceToHaveWeight*nicePart))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	out.Score = score
	out.MandatoryMissing = mustMatch < mustReq
	return out
}

// Rank scores every candidate against the requirements, drops those below
// MinScore, and sorts the rest descending by score. Ties keep input order,
// so ranking is deterministic for a fixed candidate population.
func Rank(reqs []RequiredSkill, cands []Candidate) []CandidateMatch {
	out := make([]CandidateMatch, 0, len(cands))
	for _, c := range cands {
		m := Score(reqs, c)
		if m.Score < MinScore {
			continue
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

func fuzzyMatches(r RequiredSkill, cand Candidate) bool {
	want := r.SkillName
	if want == "" {
		want = r.RawLabel
	}
	if want == "" {
		return false
	}

	for _, cs := range cand.Skills {
		if SimilarSkill(want, cs.RawLabel) || SimilarSkill(want, cs.SkillName) {
			return true
		}
	}
	return MentionedInText(want, cand.ExperienceText)
}
