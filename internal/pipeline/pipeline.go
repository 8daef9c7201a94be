// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline turns raw feed messages into validated incident records.
// Each message runs through: normalization, keyword classification and
// gazetteer lookup, an external-model fallback when either local signal is
// missing, validation of the untrusted external result, and admission into
// the store. Messages without a resolved type and place are rejected;
// placeholder locations would pollute the map.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/levmap/incident-engine/internal/classify"
	"github.com/levmap/incident-engine/internal/gazetteer"
	"github.com/levmap/incident-engine/internal/model"
	"github.com/levmap/incident-engine/internal/normalize"
	"github.com/levmap/incident-engine/pkg/types"
)

// noThreatPhrase forces the threat flag to "no" when present in the raw
// message, before the external model is consulted.
const noThreatPhrase = "لا تهديد"

// Message is one raw feed message as delivered by the ingestion
// collaborator.
type Message struct {
	Channel   string `json:"channel"`
	MessageID int64  `json:"message_id"`
	Date      string `json:"date"`
	Text      string `json:"text"`
}

// Sink receives accepted records. *store.Store satisfies it.
type Sink interface {
	Admit(rec types.IncidentRecord) (bool, error)
}

// Pipeline extracts incident records from messages. All fields are set at
// construction and read-only afterwards; the sink serializes its own
// writes, so one Pipeline is shared safely by all workers.
type Pipeline struct {
	classifier *classify.Classifier
	gaz        *gazetteer.Index
	external   model.Classifier // nil disables the fallback
	sink       Sink
	cfg        types.ExtractionConfig
	modelCfg   types.ModelConfig
	log        *log.Logger

	queue chan Message
	wg    sync.WaitGroup
}

// New assembles a pipeline. external may be nil, in which case messages
// lacking local signals are rejected without a fallback.
func New(classifier *classify.Classifier, gaz *gazetteer.Index, external model.Classifier,
	sink Sink, cfg types.ExtractionConfig, modelCfg types.ModelConfig, logger *log.Logger) *Pipeline {
	return &Pipeline{
		classifier: classifier,
		gaz:        gaz,
		external:   external,
		sink:       sink,
		cfg:        cfg,
		modelCfg:   modelCfg,
		log:        logger,
		queue:      make(chan Message, cfg.QueueSize),
	}
}

// Start launches the worker goroutines. Workers drain the queue until it is
// closed by Close or the context is cancelled.
func (p *Pipeline) Start(ctx context.Context) {
	for i := 0; i < p.cfg.Workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx)
	}
	p.log.Info("pipeline started", "workers", p.cfg.Workers, "queue", cap(p.queue))
}

// Enqueue hands a message to the workers. It blocks when the queue is full
// (backpressure on the ingestion collaborator) and returns ctx.Err() if the
// context ends first.
func (p *Pipeline) Enqueue(ctx context.Context, msg Message) error {
	select {
	case p.queue <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops intake and waits for in-flight messages to finish.
func (p *Pipeline) Close() {
	close(p.queue)
	p.wg.Wait()
}

func (p *Pipeline) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case msg, ok := <-p.queue:
			if !ok {
				return
			}
			p.handle(ctx, msg)
		case <-ctx.Done():
			return
		}
	}
}

func (p *Pipeline) handle(ctx context.Context, msg Message) {
	records := p.Process(ctx, msg)
	for _, rec := range records {
		changed, err := p.sink.Admit(rec)
		if err != nil {
			// The store keeps the record in memory and retries on the
			// next write; ingestion continues.
			p.log.Error("persisting record failed", "channel", rec.Channel, "message_id", rec.MessageID, "err", err)
			continue
		}
		if changed {
			p.log.Info("match", "type", rec.IncidentType, "location", rec.Location, "channel", rec.Channel)
		} else {
			p.log.Debug("duplicate discarded", "type", rec.IncidentType, "location", rec.Location, "channel", rec.Channel)
		}
	}
}

// Process runs the extraction decision for one message and returns the
// accepted records, one per resolved incident type. An empty slice means
// the message was rejected. Local steps are pure; only the external call
// can block, and it is bounded by the configured timeout. Any external
// failure degrades to an empty result.
func (p *Pipeline) Process(ctx context.Context, msg Message) []types.IncidentRecord {
	if strings.TrimSpace(msg.Text) == "" {
		return nil
	}

	normalized := normalize.Normalize(msg.Text)

	incidents := p.classifier.Incidents(normalized)
	place, located := p.gaz.Lookup(normalized)

	threat := types.ThreatYes
	if strings.Contains(msg.Text, noThreatPhrase) {
		threat = types.ThreatNo
	}

	// Consult the external model only when local signals are insufficient.
	if len(incidents) == 0 || !located {
		res := p.consultExternal(ctx, msg)

		if len(incidents) == 0 {
			incidents = p.validTypes(res.IncidentTypes)
		}
		if !located {
			place, located = p.validLocation(res.Location, normalized)
		}
		if t, ok := validThreat(res.ThreatLevel); ok {
			threat = t
		}
	}

	// Accept only with at least one type and a resolved place.
	if len(incidents) == 0 || !located {
		p.log.Debug("rejected", "channel", msg.Channel, "message_id", msg.MessageID,
			"types", len(incidents), "located", located)
		return nil
	}

	details := types.Details{
		NumbersFound: classify.Numbers(msg.Text, p.cfg.MaxDigits),
		Casualties:   p.classifier.Casualties(normalized),
		Summary:      summarize(msg.Text, p.cfg.SummaryLimit),
	}

	records := make([]types.IncidentRecord, 0, len(incidents))
	for _, it := range incidents {
		records = append(records, types.IncidentRecord{
			IncidentType: it,
			Location:     place.Name,
			Coordinates:  []float64{place.Lon, place.Lat},
			Channel:      msg.Channel,
			MessageID:    msg.MessageID,
			Date:         msg.Date,
			ThreatLevel:  threat,
			Details:      details,
		})
	}
	return records
}

// consultExternal calls the external classifier under the configured
// timeout. Every failure mode (no classifier, timeout, transport error,
// garbled output) collapses to the empty result.
func (p *Pipeline) consultExternal(ctx context.Context, msg Message) model.Result {
	if p.external == nil {
		return model.Result{}
	}

	callCtx, cancel := context.WithTimeout(ctx, p.modelCfg.Timeout)
	defer cancel()

	res, err := p.external.Classify(callCtx, msg.Text)
	if err != nil {
		p.log.Warn("external classifier failed", "channel", msg.Channel, "message_id", msg.MessageID, "err", err)
		return model.Result{}
	}
	return res
}

// validTypes keeps only members of the configured incident type set.
// Unknown labels are discarded, never propagated.
func (p *Pipeline) validTypes(suggested []string) []types.IncidentType {
	var out []types.IncidentType
	seen := make(map[types.IncidentType]bool)
	for _, s := range suggested {
		it := types.IncidentType(s)
		if !p.classifier.KnownType(it) || seen[it] {
			continue
		}
		seen[it] = true
		out = append(out, it)
	}
	return out
}

// validLocation accepts an externally suggested place only when its
// normalized form resolves in the gazetteer and, by the configured policy,
// the matched name literally occurs in the message text. The model
// routinely hallucinates plausible places; the gazetteer and the text are
// the arbiters.
func (p *Pipeline) validLocation(suggested, normalizedText string) (gazetteer.Entry, bool) {
	s := strings.TrimSpace(suggested)
	if s == "" || strings.Contains(s, "غير محدد") || strings.Contains(strings.ToLower(s), "unknown") {
		return gazetteer.Entry{}, false
	}

	entry, ok := p.gaz.Lookup(normalize.Normalize(s))
	if !ok {
		return gazetteer.Entry{}, false
	}

	if !p.cfg.TrustModelLocation && !strings.Contains(normalizedText, entry.Normalized) {
		p.log.Debug("external location not in text", "suggested", suggested, "matched", entry.Name)
		return gazetteer.Entry{}, false
	}
	return entry, true
}

func validThreat(s string) (types.ThreatLevel, bool) {
	switch s {
	case string(types.ThreatYes):
		return types.ThreatYes, true
	case string(types.ThreatNo):
		return types.ThreatNo, true
	}
	return "", false
}

// summarize truncates raw to limit characters, marking the cut. Truncation
// counts runes so a multi-byte Arabic letter is never split.
func summarize(raw string, limit int) string {
	runes := []rune(raw)
	if len(runes) <= limit {
		return raw
	}
	return string(runes[:limit]) + "..."
}

// Stats describes a finished batch run.
type Stats struct {
	Processed int
	Accepted  int
	Rejected  int
	Stored    int
}

func (s Stats) String() string {
	return fmt.Sprintf("processed %d, accepted %d, rejected %d, stored %d",
		s.Processed, s.Accepted, s.Rejected, s.Stored)
}

// Run processes a finite batch of messages synchronously, for feed files
// and tests. Streaming ingestion uses Start/Enqueue/Close instead.
func (p *Pipeline) Run(ctx context.Context, msgs []Message) Stats {
	var st Stats
	for _, msg := range msgs {
		records := p.Process(ctx, msg)
		st.Processed++
		if len(records) == 0 {
			st.Rejected++
			continue
		}
		st.Accepted++
		for _, rec := range records {
			changed, err := p.sink.Admit(rec)
			if err != nil {
				p.log.Error("persisting record failed", "channel", rec.Channel, "message_id", rec.MessageID, "err", err)
				continue
			}
			if changed {
				st.Stored++
			}
		}
	}
	return st
}
