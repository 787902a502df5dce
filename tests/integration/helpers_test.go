package integration

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/udisondev/navspawn/internal/config"
	"github.com/udisondev/navspawn/internal/model"
	"github.com/udisondev/navspawn/internal/testutil"
	"github.com/udisondev/navspawn/internal/world"
)

var schemaCounter atomic.Int64

// acquireSchema создаёт изолированную schema в общем контейнере и
// возвращает DSN с search_path на неё. Schema удаляется через t.Cleanup.
func acquireSchema(t testing.TB) string {
	t.Helper()
	ctx := context.Background()

	schemaName := fmt.Sprintf("test_%d", schemaCounter.Add(1))

	conn, err := pgx.Connect(ctx, sharedPGBaseDSN)
	if err != nil {
		t.Fatalf("connect to shared postgres: %v", err)
	}
	defer conn.Close(ctx)

	if _, err := conn.Exec(ctx, "CREATE SCHEMA "+schemaName); err != nil {
		t.Fatalf("create schema %s: %v", schemaName, err)
	}

	t.Cleanup(func() {
		cleanCtx := context.Background()
		cleanConn, err := pgx.Connect(cleanCtx, sharedPGBaseDSN)
		if err != nil {
			t.Logf("cleanup: connect failed: %v", err)
			return
		}
		defer cleanConn.Close(cleanCtx)
		if _, err := cleanConn.Exec(cleanCtx, "DROP SCHEMA "+schemaName+" CASCADE"); err != nil {
			t.Logf("cleanup: drop schema %s: %v", schemaName, err)
		}
	})

	sep := "&"
	if !strings.Contains(sharedPGBaseDSN, "?") {
		sep = "?"
	}
	return sharedPGBaseDSN + sep + "search_path=" + schemaName
}

// pipelineConfig — настройки, при которых почти каждая точка навмеша проходит проверку.
func pipelineConfig() config.Config {
	d := config.DomainSettings{
		Enabled:                               true,
		DistanceToExistingNpcMin:              100,
		DistanceToExistingNpcMax:              10000,
		DistanceToPlayerSpawn:                 -1,
		IgnoreExistingDeadNpc:                 true,
		VerticalDistanceWeight:                1,
		MinimumNumExistingNpcsNearby:          1,
		PreventionMethod:                      config.PreventionNever,
		PreventionDistanceFactor:              1,
		ClusterSpawnChance:                    []float64{0, 3, 1},
		ClusterMinimumDistanceToOtherClusters: 800,
		ClusterSpawnRadius:                    400,
	}
	cfg := config.Default()
	cfg.Interior = d
	cfg.Exterior = d
	return cfg
}

func pipelineWorld(tb testing.TB, seed uint64) *world.Snapshot {
	tb.Helper()
	return testutil.RandomWorld(tb, testutil.WorldSpec{
		Seed:      seed,
		Areas:     6,
		Npcs:      40,
		Triangles: 300,
		Extent:    20000,
		Templates: testutil.SampleTemplates(),
		Bases:     []model.FormID{testutil.Fixtures.List, testutil.Fixtures.RespawnNpc},
	})
}
