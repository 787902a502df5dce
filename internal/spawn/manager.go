package spawn

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/navspawn/internal/config"
	"github.com/udisondev/navspawn/internal/model"
	"github.com/udisondev/navspawn/internal/navmesh"
	"github.com/udisondev/navspawn/internal/template"
)

// Options tune a generation run.
type Options struct {
	Seed    uint64
	Workers int // 0 = GOMAXPROCS

	Metrics *Metrics

	// NewRand overrides the per-area random source (tests).
	NewRand func(area model.AreaID) Rand
}

// AreaResult is the outcome of one area.
type AreaResult struct {
	Area       model.AreaID
	Domain     model.AreaDomain
	Skipped    string // non-empty when the area was not processed
	Candidates int
	Validated  int
	Clusters   int
	Spawns     []model.SpawnRecord
}

// Stats summarizes a committed run.
type Stats struct {
	Areas        int
	Skipped      int
	Candidates   int
	Validated    int
	Spawns       int
	CommitErrors int
}

// Manager generates spawns for every area of a gateway.
type Manager struct {
	gw      Gateway
	cfg     config.Config
	opts    Options
	catalog *template.Catalog
}

// NewManager creates a manager. The template catalog is built lazily on the
// first run and reused afterwards.
func NewManager(gw Gateway, cfg config.Config, opts Options) *Manager {
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.NewRand == nil {
		seed := opts.Seed
		opts.NewRand = func(area model.AreaID) Rand {
			return NewAreaRand(seed, area)
		}
	}
	return &Manager{gw: gw, cfg: cfg, opts: opts}
}

// Catalog resolves every placed base of every area once.
func (m *Manager) Catalog() *template.Catalog {
	if m.catalog != nil {
		return m.catalog
	}
	var bases []model.FormID
	for _, area := range m.gw.Areas() {
		for _, npc := range m.gw.ExistingCharacters(area) {
			bases = append(bases, npc.Base)
		}
	}
	m.catalog = template.BuildCatalog(m.gw, bases)
	slog.Info("template catalog built", "bases", m.catalog.Len())
	return m.catalog
}

// Generate processes all areas without committing. Areas run in parallel;
// results come back in gateway area order. On cancellation the results of
// areas that completed are returned together with the context error.
func (m *Manager) Generate(ctx context.Context) ([]AreaResult, error) {
	catalog := m.Catalog()
	areas := m.gw.Areas()
	results := make([]AreaResult, len(areas))
	done := make([]bool, len(areas))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.opts.Workers)

	for i, area := range areas {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = m.processAreaSafe(area, catalog, m.opts.NewRand(area))
			done[i] = true
			return nil
		})
	}

	err := g.Wait()

	out := results[:0]
	for i := range results {
		if done[i] {
			out = append(out, results[i])
		}
	}
	if err != nil {
		return out, fmt.Errorf("generating spawns: %w", err)
	}
	return out, nil
}

// Run generates and commits spawns through the gateway. A failed commit is
// logged and counted; it never stops the run.
func (m *Manager) Run(ctx context.Context) (Stats, error) {
	results, genErr := m.Generate(ctx)

	var st Stats
	for _, r := range results {
		st.Areas++
		if r.Skipped != "" {
			st.Skipped++
			continue
		}
		st.Candidates += r.Candidates
		st.Validated += r.Validated
		for _, rec := range r.Spawns {
			if err := m.gw.CommitSpawn(r.Area, rec); err != nil {
				st.CommitErrors++
				slog.Error("failed to commit spawn",
					"area", r.Area,
					"base", rec.Base,
					"error", err)
				continue
			}
			st.Spawns++
		}
	}

	slog.Info("spawn generation finished",
		"areas", st.Areas,
		"skipped", st.Skipped,
		"candidates", st.Candidates,
		"validated", st.Validated,
		"spawns", st.Spawns,
		"commitErrors", st.CommitErrors)

	return st, genErr
}

// processAreaSafe reports a panic during area processing as a skipped area
// so the remaining areas still run and commit.
func (m *Manager) processAreaSafe(area model.AreaID, catalog *template.Catalog, rng Rand) (res AreaResult) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("area processing panicked",
				"area", area,
				"panic", r)
			res = AreaResult{Area: area, Skipped: "panic"}
			m.opts.Metrics.area("unknown", res.Skipped)
		}
	}()
	return m.processArea(area, catalog, rng)
}

// processArea reads only immutable inputs and owns its result.
func (m *Manager) processArea(area model.AreaID, catalog *template.Catalog, rng Rand) AreaResult {
	domain := m.gw.ClassifyArea(area)
	res := AreaResult{Area: area, Domain: domain}
	dl := domain.String()

	tris := m.gw.WalkableTriangles(area)
	if len(tris) == 0 {
		res.Skipped = "no_navmesh"
		m.opts.Metrics.area(dl, res.Skipped)
		slog.Debug("area skipped", "area", area, "reason", res.Skipped)
		return res
	}
	settings := m.cfg.Domain(domain)
	if !settings.Enabled {
		res.Skipped = "domain_disabled"
		m.opts.Metrics.area(dl, res.Skipped)
		slog.Debug("area skipped", "area", area, "reason", res.Skipped, "domain", dl)
		return res
	}

	starts := m.gw.PlayerStartMarkers(area)
	validator := NewValidator(area, settings, catalog, m.gw.ExistingCharacters(area), starts)

	var cands []*Candidate
	for _, p := range navmesh.Centroids(tris) {
		res.Candidates++
		src, why := validator.Validate(p)
		m.opts.Metrics.candidate(dl, why)
		if why != Accepted {
			continue
		}
		cands = append(cands, &Candidate{Position: p, Source: src})
	}
	res.Validated = len(cands)

	if len(cands) > 0 {
		clusters := NewScheduler(settings, rng).Schedule(cands)
		emitter := NewEmitter(area, settings, catalog, starts, rng)
		for _, cl := range clusters {
			m.opts.Metrics.cluster(dl, cl.Size, len(cl.Members))
			for _, c := range cl.Members {
				res.Spawns = append(res.Spawns, emitter.Emit(c))
			}
		}
		res.Clusters = len(clusters)
	}

	m.opts.Metrics.area(dl, "processed")
	slog.Info("area processed",
		"area", area,
		"domain", dl,
		"existing", validator.PoolSize(),
		"candidates", res.Candidates,
		"validated", res.Validated,
		"clusters", res.Clusters,
		"spawns", len(res.Spawns))

	return res
}

// Generate is the pure entry point: it returns the spawns for every area of
// gw under cfg without committing them.
func Generate(ctx context.Context, gw Gateway, cfg config.Config, opts Options) ([]model.SpawnRecord, error) {
	results, err := NewManager(gw, cfg, opts).Generate(ctx)
	var out []model.SpawnRecord
	for _, r := range results {
		out = append(out, r.Spawns...)
	}
	return out, err
}
