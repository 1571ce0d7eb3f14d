// Package outreach drafts the first-touch message for a candidate. The text
// service is a black box behind the Generator interface; when it is absent
// or failing, a deterministic template takes over, so Compose always returns
// a non-empty message.
package outreach

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"sourcing-engine/internal/domain"
)

type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

type Composer struct {
	gen          Generator // nil when unconfigured
	maxDescChars int
	log          *zap.Logger
}

func New(gen Generator, maxDescChars int, log *zap.Logger) *Composer {
	if maxDescChars <= 0 {
		maxDescChars = 200
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Composer{gen: gen, maxDescChars: maxDescChars, log: log}
}

func (c *Composer) Compose(ctx context.Context, p domain.CandidateProfile, q domain.JobQuery) string {
	if c.gen != nil {
		msg, err := c.gen.GenerateContent(ctx, c.prompt(p, q))
		if err == nil && strings.TrimSpace(msg) != "" {
			return strings.TrimSpace(msg)
		}
		c.log.Warn("text generation failed, using template",
			zap.String("locator", p.Locator), zap.Error(err))
	}
	return c.template(p, q)
}

func (c *Composer) prompt(p domain.CandidateProfile, q domain.JobQuery) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a concise, professional outreach message to %s for the following job: %s\n",
		p.DisplayName(), truncate(q.Description, c.maxDescChars))
	fmt.Fprintf(&b, "Their background: headline=%q employer=%q", p.Headline, p.EmployerOrDefault(""))
	if school := p.FirstSchool(); school != "" {
		fmt.Fprintf(&b, " school=%q", school)
	}
	if len(p.Skills) > 0 {
		fmt.Fprintf(&b, " skills=%s", strings.Join(p.Skills, ", "))
	}
	b.WriteString("\nExplain briefly why they are a great fit. No subject line, no placeholders.")
	return b.String()
}

// template is the deterministic fallback: name, employer, a highlight and a
// truncated job description.
func (c *Composer) template(p domain.CandidateProfile, q domain.JobQuery) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s, I came across your profile and was impressed by your experience at %s.",
		p.DisplayName(), p.EmployerOrDefault("your current company"))

	if highlight := p.TopSkill(); highlight != "" {
		fmt.Fprintf(&b, " Your background in %s stood out", highlight)
		if school := p.FirstSchool(); school != "" {
			fmt.Fprintf(&b, ", as did your time at %s", school)
		}
		b.WriteString(".")
	}

	fmt.Fprintf(&b, " I think you could be a great fit for a role we're hiring for: %s",
		truncate(q.Description, c.maxDescChars))
	b.WriteString(" Would you be open to a quick chat?")
	return b.String()
}

func truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
