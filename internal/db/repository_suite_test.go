package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/udisondev/navspawn/internal/model"
	"github.com/udisondev/navspawn/internal/testutil"
	"github.com/udisondev/navspawn/internal/world"
)

// RepositorySuite — общий suite для world/spawn репозиториев.
type RepositorySuite struct {
	suite.Suite
	ctx context.Context
	db  *DB
}

func TestRepositorySuite(t *testing.T) {
	if testDSN == "" {
		t.Skip("postgres not available")
	}
	suite.Run(t, new(RepositorySuite))
}

// SetupSuite накатывает миграции и открывает пул.
func (s *RepositorySuite) SetupSuite() {
	s.ctx = context.Background()
	s.Require().NoError(RunMigrations(s.ctx, testDSN))

	var err error
	s.db, err = New(s.ctx, testDSN)
	s.Require().NoError(err)
}

// SetupTest очищает таблицы перед каждым тестом.
func (s *RepositorySuite) SetupTest() {
	for _, q := range []string{
		"TRUNCATE templates, areas CASCADE",
		"TRUNCATE generated_spawns",
	} {
		_, err := s.db.Pool().Exec(s.ctx, q)
		s.Require().NoError(err)
	}
}

func (s *RepositorySuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
}

func (s *RepositorySuite) TestWorld_RoundTrip() {
	repo := NewWorldRepository(s.db.Pool())
	src := testutil.SampleWorld(s.T())

	s.Require().NoError(repo.SaveSnapshot(s.ctx, src))

	got, err := repo.LoadSnapshot(s.ctx, testutil.Classifier())
	s.Require().NoError(err)

	s.Equal(src.Areas(), got.Areas(), "load order kept")
	s.Equal(src.AreaList(), got.AreaList())
	s.Equal(src.TemplateList(), got.TemplateList())
	s.Equal([]model.FormID{testutil.Fixtures.List}, got.ListingParents(testutil.Fixtures.RespawnNpc))
	s.Equal(model.DomainInterior, got.ClassifyArea(testutil.Fixtures.InteriorArea))
}

func (s *RepositorySuite) TestWorld_SaveReplaces() {
	repo := NewWorldRepository(s.db.Pool())
	s.Require().NoError(repo.SaveSnapshot(s.ctx, testutil.SampleWorld(s.T())))

	small, err := world.NewSnapshot([]*world.Area{{ID: 0x50}}, nil, testutil.Classifier())
	s.Require().NoError(err)
	s.Require().NoError(repo.SaveSnapshot(s.ctx, small))

	got, err := repo.LoadSnapshot(s.ctx, testutil.Classifier())
	s.Require().NoError(err)
	s.Equal([]model.AreaID{0x50}, got.Areas())
	s.Empty(got.Templates())
}

func (s *RepositorySuite) TestWorld_Empty() {
	got, err := NewWorldRepository(s.db.Pool()).LoadSnapshot(s.ctx, testutil.Classifier())
	s.Require().NoError(err)
	s.Empty(got.Areas())
}

func (s *RepositorySuite) TestSpawns_SaveAndLoad() {
	repo := NewSpawnRepository(s.db.Pool())
	recs := testutil.SampleRecords(50)

	s.Require().NoError(repo.SaveAll(s.ctx, "run-1", recs))

	got, err := repo.LoadRun(s.ctx, "run-1")
	s.Require().NoError(err)
	s.Equal(recs, got)

	none, err := repo.LoadRun(s.ctx, "run-2")
	s.Require().NoError(err)
	s.Empty(none)
}

func (s *RepositorySuite) TestSpawns_SaveReplacesRun() {
	repo := NewSpawnRepository(s.db.Pool())

	s.Require().NoError(repo.SaveAll(s.ctx, "run-1", testutil.SampleRecords(10)))
	s.Require().NoError(repo.SaveAll(s.ctx, "run-2", testutil.SampleRecords(3)))
	s.Require().NoError(repo.SaveAll(s.ctx, "run-1", testutil.SampleRecords(2)))

	got, err := repo.LoadRun(s.ctx, "run-1")
	s.Require().NoError(err)
	s.Len(got, 2)

	other, err := repo.LoadRun(s.ctx, "run-2")
	s.Require().NoError(err)
	s.Len(other, 3, "other runs untouched")

	s.Require().NoError(repo.SaveAll(s.ctx, "run-1", nil))
	got, err = repo.LoadRun(s.ctx, "run-1")
	s.Require().NoError(err)
	s.Empty(got)
}

func (s *RepositorySuite) TestMigrations_Idempotent() {
	s.NoError(RunMigrations(s.ctx, testDSN))
}
