// Package pipeline implements the match-action pipeline: a header parser
// followed by a fixed set of ternary match tables that admit or drop frames.
package pipeline

import (
	"fmt"

	"firestige.xyz/overwatch/internal/core"
	"firestige.xyz/overwatch/internal/core/decoder"
	"firestige.xyz/overwatch/internal/log"
)

// Pipeline parses frames into header chains and applies the installed
// match entries. Process is single-threaded; Install may run concurrently
// with it.
type Pipeline struct {
	decoder decoder.Decoder
	tables  []*Table
	byName  map[string]*Table
	metrics *Metrics

	chain core.Chain
}

// Config contains pipeline configuration.
type Config struct {
	Decoder decoder.Decoder
}

// New creates a pipeline with every table empty.
func New(cfg Config) *Pipeline {
	if cfg.Decoder == nil {
		cfg.Decoder = decoder.NewStandardDecoder(decoder.Config{Geneve: true})
	}

	p := &Pipeline{
		decoder: cfg.Decoder,
		byName:  make(map[string]*Table),
	}
	names := make([]string, 0)
	for _, s := range Schemas() {
		t := newTable(s)
		p.tables = append(p.tables, t)
		p.byName[s.Name] = t
		names = append(names, s.Name)
	}
	p.metrics = NewMetrics(names)
	return p
}

// Install adds one entry to the named table.
func (p *Pipeline) Install(table, action string, key, params []byte, priority int) error {
	t, ok := p.byName[table]
	if !ok {
		return fmt.Errorf("table %q: %w", table, core.ErrUnknownTable)
	}
	if err := t.install(action, key, params, priority); err != nil {
		return err
	}
	log.GetLogger().WithFields(map[string]interface{}{
		"table":    table,
		"action":   action,
		"key":      fmt.Sprintf("%x", key),
		"priority": priority,
	}).Debug("match entry installed")
	return nil
}

// Table returns the named table.
func (p *Pipeline) Table(name string) (*Table, bool) {
	t, ok := p.byName[name]
	return t, ok
}

// Process parses frame and runs it through the tables. The returned chain
// is owned by the pipeline and valid until the next call. A decode error is
// returned alongside the partial chain, which is still matched.
func (p *Pipeline) Process(frame []byte) (chain *core.Chain, admitted bool, err error) {
	p.metrics.Received.Add(1)

	if err = p.decoder.Decode(frame, &p.chain); err != nil {
		p.metrics.DecodeErrors.Add(1)
	} else {
		p.metrics.Decoded.Add(1)
	}

	admitted = true
	for _, t := range p.tables {
		fields, ok := t.schema.key(&p.chain)
		if !ok {
			continue
		}
		if action, hit := t.lookup(fields); hit && action == ActionDrop {
			p.metrics.TableDrops[t.Name()].Add(1)
			admitted = false
		}
	}

	if admitted {
		p.metrics.Admitted.Add(1)
	} else {
		p.metrics.Dropped.Add(1)
	}
	return &p.chain, admitted, err
}

// Stats returns pipeline statistics.
func (p *Pipeline) Stats() Stats {
	s := Stats{
		Received:     p.metrics.Received.Load(),
		Decoded:      p.metrics.Decoded.Load(),
		DecodeErrors: p.metrics.DecodeErrors.Load(),
		Admitted:     p.metrics.Admitted.Load(),
		Dropped:      p.metrics.Dropped.Load(),
		TableDrops:   make(map[string]uint64),
	}
	for name, c := range p.metrics.TableDrops {
		if v := c.Load(); v > 0 {
			s.TableDrops[name] = v
		}
	}
	return s
}

// Stats represents pipeline statistics.
type Stats struct {
	Received     uint64
	Decoded      uint64
	DecodeErrors uint64
	Admitted     uint64
	Dropped      uint64
	TableDrops   map[string]uint64
}
