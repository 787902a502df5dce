package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/navspawn/internal/model"
	"github.com/udisondev/navspawn/internal/world"
)

// WorldRepository reads and replaces the world tables.
type WorldRepository struct {
	pool *pgxpool.Pool
}

// NewWorldRepository creates a new world repository.
func NewWorldRepository(pool *pgxpool.Pool) *WorldRepository {
	return &WorldRepository{pool: pool}
}

// LoadSnapshot reads templates and areas in load order and indexes them.
func (r *WorldRepository) LoadSnapshot(ctx context.Context, classifier world.Classifier) (*world.Snapshot, error) {
	templates, err := r.loadTemplates(ctx)
	if err != nil {
		return nil, err
	}
	areas, err := r.loadAreas(ctx)
	if err != nil {
		return nil, err
	}

	s, err := world.NewSnapshot(areas, templates, classifier)
	if err != nil {
		return nil, fmt.Errorf("indexing world: %w", err)
	}

	slog.Info("world loaded from database",
		"areas", len(areas),
		"templates", len(templates))

	return s, nil
}

func (r *WorldRepository) loadTemplates(ctx context.Context) ([]*model.Template, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT form_id, kind, template_id, flags, template_flags
		FROM templates
		ORDER BY load_order
	`)
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}
	defer rows.Close()

	var (
		templates []*model.Template
		byID      = make(map[model.FormID]*model.Template)
	)
	for rows.Next() {
		var (
			id, tmpl, flags int64
			kind            string
			tflags          int32
		)
		if err := rows.Scan(&id, &kind, &tmpl, &flags, &tflags); err != nil {
			return nil, fmt.Errorf("scanning template row: %w", err)
		}

		var t *model.Template
		switch kind {
		case model.KindNpc.String():
			t = model.NewNpc(model.FormID(id), model.FormID(tmpl), model.NpcFlag(flags), model.TemplateFlag(tflags))
		case model.KindLeveledList.String():
			t = model.NewLeveledList(model.FormID(id))
		default:
			return nil, fmt.Errorf("template %s: unknown kind %q", model.FormID(id), kind)
		}
		templates = append(templates, t)
		byID[t.ID] = t
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating template rows: %w", err)
	}

	if err := r.loadFactions(ctx, byID); err != nil {
		return nil, err
	}
	if err := r.loadEntries(ctx, byID); err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *WorldRepository) loadFactions(ctx context.Context, byID map[model.FormID]*model.Template) error {
	rows, err := r.pool.Query(ctx, `
		SELECT form_id, faction_id
		FROM template_factions
		ORDER BY form_id, faction_id
	`)
	if err != nil {
		return fmt.Errorf("loading template factions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, faction int64
		if err := rows.Scan(&id, &faction); err != nil {
			return fmt.Errorf("scanning faction row: %w", err)
		}
		if t, ok := byID[model.FormID(id)]; ok {
			t.Factions = append(t.Factions, model.FormID(faction))
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating faction rows: %w", err)
	}
	return nil
}

func (r *WorldRepository) loadEntries(ctx context.Context, byID map[model.FormID]*model.Template) error {
	rows, err := r.pool.Query(ctx, `
		SELECT list_id, entry_id
		FROM leveled_entries
		ORDER BY list_id, idx
	`)
	if err != nil {
		return fmt.Errorf("loading leveled entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var list, entry int64
		if err := rows.Scan(&list, &entry); err != nil {
			return fmt.Errorf("scanning leveled entry row: %w", err)
		}
		if t, ok := byID[model.FormID(list)]; ok {
			t.Entries = append(t.Entries, model.FormID(entry))
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating leveled entry rows: %w", err)
	}
	return nil
}

func (r *WorldRepository) loadAreas(ctx context.Context) ([]*world.Area, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT form_id, worldspace
		FROM areas
		ORDER BY load_order
	`)
	if err != nil {
		return nil, fmt.Errorf("loading areas: %w", err)
	}
	defer rows.Close()

	var (
		areas []*world.Area
		byID  = make(map[model.AreaID]*world.Area)
	)
	for rows.Next() {
		var (
			id int64
			ws string
		)
		if err := rows.Scan(&id, &ws); err != nil {
			return nil, fmt.Errorf("scanning area row: %w", err)
		}
		a := &world.Area{ID: model.AreaID(id), Worldspace: ws}
		areas = append(areas, a)
		byID[a.ID] = a
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating area rows: %w", err)
	}

	if err := r.loadNpcs(ctx, byID); err != nil {
		return nil, err
	}
	if err := r.loadTriangles(ctx, byID); err != nil {
		return nil, err
	}
	if err := r.loadPlayerStarts(ctx, byID); err != nil {
		return nil, err
	}
	return areas, nil
}

func (r *WorldRepository) loadNpcs(ctx context.Context, byID map[model.AreaID]*world.Area) error {
	rows, err := r.pool.Query(ctx, `
		SELECT area_id, form_id, base_id, x, y, z, rotation, scale,
		       starts_dead, persistent, location_ref, linked_refs
		FROM placed_npcs
		ORDER BY area_id, seq
	`)
	if err != nil {
		return fmt.Errorf("loading placed npcs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			areaID, id, base, locRef int64
			x, y, z, rot, scale      float64
			dead, persistent         bool
			linked                   []int64
		)
		if err := rows.Scan(&areaID, &id, &base, &x, &y, &z, &rot, &scale,
			&dead, &persistent, &locRef, &linked); err != nil {
			return fmt.Errorf("scanning placed npc row: %w", err)
		}
		a, ok := byID[model.AreaID(areaID)]
		if !ok {
			continue
		}

		npc := model.PlacedNpc{
			ID:          model.FormID(id),
			Base:        model.FormID(base),
			Position:    model.NewPoint3(x, y, z),
			Rotation:    rot,
			Scale:       scale,
			StartsDead:  dead,
			Persistent:  persistent,
			LocationRef: model.FormID(locRef),
		}
		for _, ref := range linked {
			npc.LinkedRefs = append(npc.LinkedRefs, model.FormID(ref))
		}
		a.Npcs = append(a.Npcs, npc)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating placed npc rows: %w", err)
	}
	return nil
}

func (r *WorldRepository) loadTriangles(ctx context.Context, byID map[model.AreaID]*world.Area) error {
	rows, err := r.pool.Query(ctx, `
		SELECT area_id, x0, y0, z0, x1, y1, z1, x2, y2, z2
		FROM navmesh_triangles
		ORDER BY area_id, seq
	`)
	if err != nil {
		return fmt.Errorf("loading navmesh triangles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			areaID int64
			v      [9]float64
		)
		if err := rows.Scan(&areaID, &v[0], &v[1], &v[2], &v[3], &v[4], &v[5], &v[6], &v[7], &v[8]); err != nil {
			return fmt.Errorf("scanning triangle row: %w", err)
		}
		if a, ok := byID[model.AreaID(areaID)]; ok {
			a.Triangles = append(a.Triangles, model.Triangle{
				model.NewPoint3(v[0], v[1], v[2]),
				model.NewPoint3(v[3], v[4], v[5]),
				model.NewPoint3(v[6], v[7], v[8]),
			})
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating triangle rows: %w", err)
	}
	return nil
}

func (r *WorldRepository) loadPlayerStarts(ctx context.Context, byID map[model.AreaID]*world.Area) error {
	rows, err := r.pool.Query(ctx, `
		SELECT area_id, x, y, z
		FROM player_starts
		ORDER BY area_id, seq
	`)
	if err != nil {
		return fmt.Errorf("loading player starts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			areaID  int64
			x, y, z float64
		)
		if err := rows.Scan(&areaID, &x, &y, &z); err != nil {
			return fmt.Errorf("scanning player start row: %w", err)
		}
		if a, ok := byID[model.AreaID(areaID)]; ok {
			a.PlayerStarts = append(a.PlayerStarts, model.NewPoint3(x, y, z))
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating player start rows: %w", err)
	}
	return nil
}

// SaveSnapshot replaces all world tables with the contents of s (full replace).
func (r *WorldRepository) SaveSnapshot(ctx context.Context, s *world.Snapshot) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `TRUNCATE templates, areas CASCADE`); err != nil {
		return fmt.Errorf("clearing world tables: %w", err)
	}

	var templates, factions, entries [][]any
	for i, t := range s.TemplateList() {
		templates = append(templates, []any{
			int64(t.ID), int32(i), t.Kind.String(), int64(t.Template), int64(t.Flags), int32(t.TemplateFlags),
		})
		for _, f := range t.Factions {
			factions = append(factions, []any{int64(t.ID), int64(f)})
		}
		for pos, e := range t.Entries {
			entries = append(entries, []any{int64(t.ID), int32(pos), int64(e)})
		}
	}

	var areas, npcs, tris, starts [][]any
	for i, a := range s.AreaList() {
		id := int64(a.ID)
		areas = append(areas, []any{id, int32(i), a.Worldspace})
		for seq, n := range a.Npcs {
			linked := make([]int64, len(n.LinkedRefs))
			for k, ref := range n.LinkedRefs {
				linked[k] = int64(ref)
			}
			npcs = append(npcs, []any{
				int64(n.ID), id, int32(seq), int64(n.Base),
				n.Position.X, n.Position.Y, n.Position.Z, n.Rotation, n.Scale,
				n.StartsDead, n.Persistent, int64(n.LocationRef), linked,
			})
		}
		for seq, t := range a.Triangles {
			tris = append(tris, []any{
				id, int32(seq),
				t[0].X, t[0].Y, t[0].Z,
				t[1].X, t[1].Y, t[1].Z,
				t[2].X, t[2].Y, t[2].Z,
			})
		}
		for seq, p := range a.PlayerStarts {
			starts = append(starts, []any{id, int32(seq), p.X, p.Y, p.Z})
		}
	}

	copies := []struct {
		table   string
		columns []string
		rows    [][]any
	}{
		{"templates", []string{"form_id", "load_order", "kind", "template_id", "flags", "template_flags"}, templates},
		{"template_factions", []string{"form_id", "faction_id"}, factions},
		{"leveled_entries", []string{"list_id", "idx", "entry_id"}, entries},
		{"areas", []string{"form_id", "load_order", "worldspace"}, areas},
		{"placed_npcs", []string{
			"form_id", "area_id", "seq", "base_id", "x", "y", "z", "rotation", "scale",
			"starts_dead", "persistent", "location_ref", "linked_refs",
		}, npcs},
		{"navmesh_triangles", []string{"area_id", "seq", "x0", "y0", "z0", "x1", "y1", "z1", "x2", "y2", "z2"}, tris},
		{"player_starts", []string{"area_id", "seq", "x", "y", "z"}, starts},
	}
	for _, c := range copies {
		if len(c.rows) == 0 {
			continue
		}
		if _, err := tx.CopyFrom(ctx, pgx.Identifier{c.table}, c.columns, pgx.CopyFromRows(c.rows)); err != nil {
			return fmt.Errorf("copying %s: %w", c.table, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing world: %w", err)
	}

	slog.Info("world saved to database",
		"areas", len(areas),
		"templates", len(templates),
		"npcs", len(npcs),
		"triangles", len(tris))

	return nil
}
