package insider

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/seenimoa/insiderscan/internal/config"
	"github.com/seenimoa/insiderscan/internal/dataset"
	"github.com/seenimoa/insiderscan/internal/trace"
	"github.com/seenimoa/insiderscan/pkg/models"
)

// progressEvery is the number of transaction rows between progress lines.
const progressEvery = 5000

// Pipeline runs the per-row stages over a loaded dataset and ranks the
// result.
type Pipeline struct {
	gate     Gate
	filter   Filter
	scorer   Scorer
	enricher *CompanyEnricher
	resolver *Resolver
	logger   zerolog.Logger
}

// NewPipeline assembles a pipeline. A nil enricher skips company enrichment;
// a nil resolver skips market cap resolution.
func NewPipeline(cfg *config.Config, enricher *CompanyEnricher, resolver *Resolver, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		gate:     NewGate(cfg),
		filter:   NewFilter(cfg),
		scorer:   NewScorer(cfg),
		enricher: enricher,
		resolver: resolver,
		logger:   logger.With().Str("component", "pipeline").Logger(),
	}
}

// Build joins every transaction of tables with its submission and owners,
// derives the row-local fields and enriches the records that pass the gate.
// Records failing the gate can never pass the final filter, so only gated
// records are returned.
func (p *Pipeline) Build(ctx context.Context, tables *dataset.Tables) ([]*models.TradeRecord, error) {
	ctx, span := trace.StartSpan(ctx, "insider.build")
	defer span.End()

	var (
		rows    int
		records []*models.TradeRecord
	)
	err := tables.EachTransaction(ctx, func(tx dataset.Row) error {
		rows++
		if rows%progressEvery == 0 {
			p.logger.Info().Int("rows", rows).Int("candidates", len(records)).Msg("processing transactions")
		}
		for _, r := range Join(tx, tables) {
			Derive(r)
			if !p.gate.Pass(r) {
				continue
			}
			if p.enricher != nil {
				p.enricher.Enrich(ctx, r)
			}
			if p.resolver != nil {
				p.resolver.Resolve(ctx, r)
			}
			records = append(records, r)
		}
		return nil
	})
	span.SetAttributes(attribute.Int("rows", rows), attribute.Int("candidates", len(records)))
	if err != nil {
		return nil, err
	}
	p.logger.Info().Int("rows", rows).Int("candidates", len(records)).Msg("transactions processed")
	return records, nil
}

// Rank drops records traded before since, applies the final filter, scores
// the survivors and orders them by market cap presence, then score, both
// descending. A zero since disables the date filter. Records without a
// transaction date are kept.
func (p *Pipeline) Rank(records []*models.TradeRecord, since time.Time) []*models.TradeRecord {
	ranked := make([]*models.TradeRecord, 0, len(records))
	for _, r := range records {
		if !since.IsZero() && r.TransactionDate != nil && r.TransactionDate.Before(since) {
			continue
		}
		if !p.filter.Pass(r) {
			continue
		}
		r.Score = models.Float(p.scorer.Score(r))
		ranked = append(ranked, r)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.HasMarketCap() != b.HasMarketCap() {
			return a.HasMarketCap()
		}
		return *a.Score > *b.Score
	})
	return ranked
}
