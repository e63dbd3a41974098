package usecase

import (
	"context"
	"errors"
	"time"

	"talent-match/internal/ai"
	"talent-match/internal/domain/skill"
	"talent-match/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	fallbackConfidence = 0.5
	aliasCacheTTL      = 30 * time.Minute
)

// NormalizedSkill is the canonicalizer's answer for one raw label.
type NormalizedSkill struct {
	SkillID       uuid.UUID
	CanonicalName string
	Category      skill.Category
	RawLabel      string
	Priority      skill.Priority
	Confidence    float64
}

// aliasCache is the read-through cache in front of the alias table. The
// redis wrapper satisfies it; a nil cache disables caching.
type aliasCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

type SkillCanonicalizer interface {
	Normalize(ctx context.Context, rawLabel string, priority skill.Priority) (NormalizedSkill, error)
}

// Canonicalizer resolves free-text skill labels to canonical skill records,
// creating new canonical entries and alias mappings when a label is novel.
// Completion-service failures degrade to a local fallback and are never
// surfaced to the caller; only storage failures propagate.
type Canonicalizer struct {
	skills repository.SkillRepository
	client ai.CompletionClient
	cache  aliasCache
	logger *zap.Logger
}

func NewCanonicalizer(skills repository.SkillRepository, client ai.CompletionClient, cache aliasCache, logger *zap.Logger) *Canonicalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Canonicalizer{skills: skills, client: client, cache: cache, logger: logger}
}

func (c *Canonicalizer) Normalize(ctx context.Context, rawLabel string, priority skill.Priority) (NormalizedSkill, error) {
	cleaned := skill.CleanLabel(rawLabel)
	if cleaned == "" {
		return NormalizedSkill{}, ErrInvalidInput
	}

	if cached, ok := c.cachedResult(ctx, cleaned); ok {
		cached.RawLabel = rawLabel
		cached.Priority = priority
		return cached, nil
	}

	// Known alias wins before anything else.
	alias, aliased, err := c.skills.FindAliasByLabel(ctx, cleaned)
	if err == nil {
		out := NormalizedSkill{
			SkillID:       aliased.ID,
			CanonicalName: aliased.Name,
			Category:      aliased.Category,
			RawLabel:      rawLabel,
			Priority:      priority,
			Confidence:    alias.Confidence,
		}
		c.storeCachedResult(ctx, cleaned, out)
		return out, nil
	}
	if !errors.Is(err, repository.ErrAliasNotFound) {
		return NormalizedSkill{}, err
	}

	// The cleaned label may already be a canonical name itself.
	existing, err := c.skills.FindByName(ctx, cleaned)
	if err == nil {
		out := NormalizedSkill{
			SkillID:       existing.ID,
			CanonicalName: existing.Name,
			Category:      existing.Category,
			RawLabel:      rawLabel,
			Priority:      priority,
			Confidence:    1.0,
		}
		c.storeCachedResult(ctx, cleaned, out)
		return out, nil
	}
	if !errors.Is(err, repository.ErrSkillNotFound) {
		return NormalizedSkill{}, err
	}

	cat := c.categorize(ctx, cleaned)

	created, err := c.skills.UpsertSkill(ctx, cat.CanonicalName, skill.ParseCategory(cat.Category))
	if err != nil {
		return NormalizedSkill{}, err
	}

	if cleaned != created.Name {
		if err := c.skills.UpsertAlias(ctx, cleaned, created.ID, cat.Confidence, skill.AliasSourceAI); err != nil {
			return NormalizedSkill{}, err
		}
	}

	out := NormalizedSkill{
		SkillID:       created.ID,
		CanonicalName: created.Name,
		Category:      created.Category,
		RawLabel:      rawLabel,
		Priority:      priority,
		Confidence:    cat.Confidence,
	}
	c.storeCachedResult(ctx, cleaned, out)
	return out, nil
}

// categorize asks the completion service for a canonical form. Any failure
// falls back to the cleaned label itself: skill extraction is best-effort.
func (c *Canonicalizer) categorize(ctx context.Context, cleaned string) ai.SkillCategorization {
	if c.client != nil {
		cat, err := c.client.CategorizeSkill(ctx, cleaned)
		if err == nil && cat.CanonicalName != "" {
			cat.CanonicalName = skill.CleanLabel(cat.CanonicalName)
			if cat.CanonicalName != "" {
				return cat
			}
		}
		if err != nil {
			c.logger.Warn("skill categorization degraded to local fallback",
				zap.String("label", cleaned),
				zap.Error(err),
			)
		}
	}

	return ai.SkillCategorization{
		CanonicalName: cleaned,
		Category:      string(skill.CategoryTechnical),
		Confidence:    fallbackConfidence,
	}
}

func (c *Canonicalizer) cachedResult(ctx context.Context, cleaned string) (NormalizedSkill, bool) {
	if c.cache == nil {
		return NormalizedSkill{}, false
	}
	var out NormalizedSkill
	ok, err := c.cache.GetJSON(ctx, aliasCacheKey(cleaned), &out)
	if err != nil || !ok {
		return NormalizedSkill{}, false
	}
	return out, true
}

func (c *Canonicalizer) storeCachedResult(ctx context.Context, cleaned string, out NormalizedSkill) {
	if c.cache == nil {
		return
	}
	_ = c.cache.SetJSON(ctx, aliasCacheKey(cleaned), out, aliasCacheTTL)
}

func aliasCacheKey(cleaned string) string {
	return "skills:alias:" + cleaned
}
