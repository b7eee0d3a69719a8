//go:build integration

package run_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/eduardofuncao/sqlhelp/internal/config"
	"github.com/eduardofuncao/sqlhelp/internal/db"
	"github.com/eduardofuncao/sqlhelp/internal/run"
)

// PostgresSuite runs the executor against a real PostgreSQL server. The
// container is shared; each test gets its own table.
type PostgresSuite struct {
	suite.Suite
	ctx       context.Context
	container testcontainers.Container
	configDir string
	exec      *run.Executor
}

func TestPostgresSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresSuite))
}

func (s *PostgresSuite) SetupSuite() {
	s.ctx = context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(s.ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	s.Require().NoError(err, "Failed to start PostgreSQL container")
	s.container = container

	host, err := container.Host(s.ctx)
	s.Require().NoError(err)
	port, err := container.MappedPort(s.ctx, "5432")
	s.Require().NoError(err)

	doc := map[string]map[string]any{
		"default": {
			"DBMS":     "postgresql",
			"HOST":     host,
			"PORT":     port.Port(),
			"DBNAME":   "testdb",
			"USER":     "test",
			"PASSWORD": "test",
			"OPTIONS":  map[string]string{"sslmode": "disable"},
		},
	}
	data, err := json.Marshal(doc)
	s.Require().NoError(err)

	s.configDir = s.T().TempDir()
	s.Require().NoError(os.WriteFile(filepath.Join(s.configDir, config.DefaultFileName), data, 0644))

	start := filepath.Join(s.configDir, "project", "src")
	s.Require().NoError(os.MkdirAll(start, 0755))
	s.exec = run.New(db.NewFactory(start, config.SearchPolicy{}, ""))
}

func (s *PostgresSuite) TearDownSuite() {
	if s.container != nil {
		s.container.Terminate(s.ctx)
	}
}

func (s *PostgresSuite) SetupTest() {
	s.Require().NoError(s.exec.Execute(s.ctx, "DROP TABLE IF EXISTS t"))
	s.Require().NoError(s.exec.Execute(s.ctx, "CREATE TABLE t (x INTEGER PRIMARY KEY, label TEXT)"))
}

func (s *PostgresSuite) TestInsertThenSelect() {
	s.Require().NoError(s.exec.Execute(s.ctx, "INSERT INTO t(x, label) VALUES (%s, %s)", 5, "five"))

	row, err := s.exec.SelectOne(s.ctx, "SELECT x, label FROM t WHERE x = %s", 5)
	s.Require().NoError(err)
	s.Equal(run.Row{int64(5), "five"}, row)

	none, err := s.exec.SelectOne(s.ctx, "SELECT x FROM t WHERE x = %s", 6)
	s.Require().NoError(err)
	s.Nil(none)
}

func (s *PostgresSuite) TestBatchOfThree() {
	affected, err := s.exec.ExecuteMany(s.ctx, "INSERT INTO t(x) VALUES (%s)", [][]any{{1}, {2}, {3}})
	s.Require().NoError(err)
	s.Equal(int64(3), affected)

	rs, err := s.exec.SelectAll(s.ctx, "SELECT x FROM t ORDER BY x")
	s.Require().NoError(err)
	s.Equal([]run.Row{{int64(1)}, {int64(2)}, {int64(3)}}, rs.Rows)
}

func (s *PostgresSuite) TestFailedBatchCommitsNothing() {
	_, err := s.exec.ExecuteMany(s.ctx, "INSERT INTO t(x) VALUES (%s)", [][]any{{1}, {2}, {1}})
	s.Require().Error(err)

	row, err := s.exec.SelectOne(s.ctx, "SELECT COUNT(*) FROM t")
	s.Require().NoError(err)
	s.Equal(int64(0), row[0])
}

func (s *PostgresSuite) TestLiteralPercentIsNotAMarker() {
	s.Require().NoError(s.exec.Execute(s.ctx, "INSERT INTO t(x, label) VALUES (%s, '%s literal')", 1))

	row, err := s.exec.SelectOne(s.ctx, "SELECT label FROM t WHERE label LIKE '%%literal' AND x = %s", 1)
	s.Require().NoError(err)
	s.Equal(run.Row{"%s literal"}, row)
}

func (s *PostgresSuite) TestConcurrentIncrements() {
	s.Require().NoError(s.exec.Execute(s.ctx, "INSERT INTO t(x, label) VALUES (%s, %s)", 1, "0"))

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.exec.Execute(s.ctx, "UPDATE t SET label = (label::int + 1)::text WHERE x = %s", 1)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		s.Require().NoError(err)
	}

	row, err := s.exec.SelectOne(s.ctx, "SELECT label FROM t WHERE x = %s", 1)
	s.Require().NoError(err)
	s.Equal("8", row[0])
}
