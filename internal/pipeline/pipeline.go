// Package pipeline runs the generate-validate-repair loop: one initial
// generation call, then at most one full-document repair pass and at most
// one targeted pass per failing section kind, strictly sequential, always
// returning the best-effort document together with whatever violations
// remain.
package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sellerkit/listinggen/internal/config"
	"github.com/sellerkit/listinggen/internal/listing"
	"github.com/sellerkit/listinggen/internal/llm"
	"github.com/sellerkit/listinggen/internal/postprocess"
	"github.com/sellerkit/listinggen/internal/prompt"
	"github.com/sellerkit/listinggen/internal/validate"
)

// Request is one listing-generation job. ProductInfo is the resolved
// product text; URL fetching happens before the pipeline.
type Request struct {
	Marketplace string
	Brand       string
	BrandVoice  string
	USPs        string
	ProductInfo string
	Variants    int
	Profile     config.ConstraintProfile
}

// Result is the pipeline outcome: the final document text, any violations
// still unresolved after the bounded repair passes, the source URLs the
// research section surfaced, and the number of backend calls spent.
type Result struct {
	Document     string
	Violations   []validate.Violation
	Sources      []string
	BackendCalls int
}

// Complete reports whether the document satisfies every constraint.
func (r Result) Complete() bool { return len(r.Violations) == 0 }

// Pipeline wires the generation backend into the validate/repair loop. All
// mutation happens on request-local state; a Pipeline is safe for concurrent
// Run calls.
type Pipeline struct {
	Generator   *llm.Generator
	MaxTokens   int
	Temperature float32
	// Timeout bounds each individual backend call.
	Timeout time.Duration
	Logger  zerolog.Logger
}

// Run executes the loop for one request. An error is returned only when the
// initial generation fails; repair failures degrade to a best-effort result.
func (p *Pipeline) Run(ctx context.Context, req Request) (Result, error) {
	if req.Variants != 3 {
		req.Variants = 1
	}
	in := prompt.Inputs{
		Brand:       req.Brand,
		Marketplace: req.Marketplace,
		Language:    config.LanguageName(config.MarketplaceLanguage(req.Marketplace)),
		BrandVoice:  req.BrandVoice,
		USPs:        req.USPs,
		ProductInfo: req.ProductInfo,
		Variants:    req.Variants,
		Profile:     req.Profile,
	}

	res := Result{}
	system := prompt.System(req.Profile, req.Variants)

	gen, err := p.call(ctx, &res, system, prompt.User(in))
	if err != nil {
		return Result{}, err
	}

	doc := postprocess.Apply(listing.Parse(gen), req.Profile, req.Brand)
	viols := validate.Check(doc, req.Profile, req.Brand)
	p.Logger.Debug().Int("violations", len(viols)).Msg("initial generation validated")

	if len(viols) > 0 {
		doc, viols = p.fullRepair(ctx, &res, in, system, doc, viols, req)
	}
	if len(viols) > 0 {
		doc, viols = p.targetedRepair(ctx, &res, in, doc, viols, req)
	}

	res.Document = doc.Raw
	res.Violations = viols
	res.Sources = strings.Fields(doc.Research.SourcesLine)
	return res, nil
}

// call issues a single backend request and counts it.
func (p *Pipeline) call(ctx context.Context, res *Result, system, user string) (string, error) {
	res.BackendCalls++
	out, err := p.Generator.Generate(ctx, llm.Request{
		Instructions: system,
		Input:        user,
		MaxTokens:    p.MaxTokens,
		Temperature:  p.Temperature,
		Timeout:      p.Timeout,
	})
	if err != nil {
		return "", err
	}
	return out.Text, nil
}

// fullRepair asks the backend to rewrite the whole document once. A failed
// or structurally empty reply keeps the current document.
func (p *Pipeline) fullRepair(ctx context.Context, res *Result, in prompt.Inputs, system string, doc listing.Document, viols []validate.Violation, req Request) (listing.Document, []validate.Violation) {
	out, err := p.call(ctx, res, system, prompt.FullRepair(in, doc.Raw, validate.Describe(viols)))
	if err != nil {
		p.Logger.Warn().Err(err).Msg("full repair call failed; keeping prior document")
		return doc, viols
	}
	cand := postprocess.Apply(listing.Parse(out), req.Profile, req.Brand)
	if len(cand.Blocks) == 0 {
		p.Logger.Warn().Msg("full repair produced no variant blocks; keeping prior document")
		return doc, viols
	}
	cv := validate.Check(cand, req.Profile, req.Brand)
	p.Logger.Debug().Int("violations", len(cv)).Msg("full repair validated")
	return cand, cv
}

// target identifies one section of one block needing regeneration.
type target struct {
	label string
	kind  listing.SectionKind
}

// targetedRepair issues one section-scoped call per failing (block, section)
// pair and splices accepted replacements back. A replacement that does not
// itself pass the target section's checks is discarded rather than risk
// losing prior content.
func (p *Pipeline) targetedRepair(ctx context.Context, res *Result, in prompt.Inputs, doc listing.Document, viols []validate.Violation, req Request) (listing.Document, []validate.Violation) {
	var targets []target
	seen := map[target]bool{}
	for _, v := range viols {
		kind, ok := kindOf(v.Section)
		if !ok {
			continue
		}
		tg := target{label: v.Variant, kind: kind}
		if !seen[tg] {
			seen[tg] = true
			targets = append(targets, tg)
		}
	}

	for _, tg := range targets {
		idx := blockIndex(doc, tg.label)
		if idx < 0 {
			continue
		}
		blk := doc.Blocks[idx]
		sectionViols := violationsFor(viols, tg)
		// An earlier splice can clear a later target, e.g. when a replacement
		// carried an extra section; don't spend a call on it.
		if len(sectionViols) == 0 {
			continue
		}

		out, err := p.call(ctx, res,
			prompt.SectionRepairSystem(tg.kind, req.Profile),
			prompt.SectionRepairUser(in, tg.label, doc.Raw[blk.Start:blk.End], validate.Describe(sectionViols)))
		if err != nil {
			p.Logger.Warn().Err(err).Str("section", tg.kind.String()).Msg("targeted repair call failed; keeping prior content")
			continue
		}

		cand, err := doc.Splice(idx, tg.kind, out)
		if err != nil {
			continue
		}
		cand = postprocess.Apply(cand, req.Profile, req.Brand)
		cv := validate.Check(cand, req.Profile, req.Brand)
		if len(violationsFor(cv, tg)) > 0 {
			p.Logger.Debug().Str("section", tg.kind.String()).Str("variant", tg.label).Msg("replacement still invalid; discarded")
			continue
		}
		doc = cand
		viols = cv
	}

	// Final pass over whatever the splices produced.
	doc = postprocess.Apply(doc, req.Profile, req.Brand)
	return doc, validate.Check(doc, req.Profile, req.Brand)
}

func kindOf(section string) (listing.SectionKind, bool) {
	for _, k := range listing.Kinds {
		if k.String() == section {
			return k, true
		}
	}
	return 0, false
}

func blockIndex(doc listing.Document, label string) int {
	for i, blk := range doc.Blocks {
		if blk.Label == label {
			return i
		}
	}
	return -1
}

func violationsFor(viols []validate.Violation, tg target) []validate.Violation {
	var out []validate.Violation
	for _, v := range viols {
		if v.Variant == tg.label && v.Section == tg.kind.String() {
			out = append(out, v)
		}
	}
	return out
}
