//go:build integration

package sqlstore_test

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/rs/zerolog"

	"lightbnb/internal/domain"
	"lightbnb/internal/shared"
	"lightbnb/internal/storage/sqlstore"
)

// ---------- small helpers ----------
func pstr(s string) *string     { return &s }
func pint64(i int64) *int64     { return &i }
func pfloat(f float64) *float64 { return &f }

type container struct {
	repository, tag string
	env             []string
	port            string
	cfg             func(hostPort int) shared.DatabaseConfig
}

var containers = map[string]container{
	"postgres": {
		repository: "postgres",
		tag:        "16-alpine",
		env:        []string{"POSTGRES_PASSWORD=secret", "POSTGRES_USER=lightbnb", "POSTGRES_DB=lightbnb"},
		port:       "5432/tcp",
		cfg: func(p int) shared.DatabaseConfig {
			return shared.DatabaseConfig{Driver: "postgres", Host: "127.0.0.1", Port: p, User: "lightbnb", Password: "secret", Name: "lightbnb", SSLMode: "disable"}
		},
	},
	"mysql": {
		repository: "mysql",
		tag:        "8.0.36",
		env:        []string{"MYSQL_ROOT_PASSWORD=root", "MYSQL_DATABASE=lightbnb"},
		port:       "3306/tcp",
		cfg: func(p int) shared.DatabaseConfig {
			return shared.DatabaseConfig{Driver: "mysql", Host: "127.0.0.1", Port: p, User: "root", Password: "root", Name: "lightbnb"}
		},
	},
}

// startDB runs an isolated database container, applies testdata/<driver>/*.sql
// and returns a repository over it.
func startDB(t *testing.T, driver string) *sqlstore.Repo {
	t.Helper()
	spec := containers[driver]

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	pool.MaxWait = 2 * time.Minute

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: spec.repository,
		Tag:        spec.tag,
		Env:        spec.env,
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run %s: %v", driver, err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	port, err := strconv.Atoi(resource.GetPort(spec.port))
	if err != nil {
		t.Fatalf("container port: %v", err)
	}
	cfg := spec.cfg(port)
	cfg.MaxOpenConns, cfg.MaxIdleConns = 4, 2

	var (
		db      *sql.DB
		dialect sqlstore.Dialect
	)
	if err := pool.Retry(func() error {
		var e error
		db, dialect, e = sqlstore.Open(context.Background(), cfg, zerolog.Nop())
		return e
	}); err != nil {
		t.Fatalf("connect %s: %v", driver, err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyFixtures(t, db, filepath.Join("testdata", driver))
	return sqlstore.New(db, dialect, zerolog.Nop())
}

func applyFixtures(t *testing.T, db *sql.DB, dir string) {
	t.Helper()
	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil || len(files) == 0 {
		t.Fatalf("no .sql files in %s (%v)", dir, err)
	}
	sort.Strings(files)
	for _, f := range files {
		b, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		for _, stmt := range strings.Split(string(b), ";") {
			if strings.TrimSpace(stmt) == "" {
				continue
			}
			if _, err := db.Exec(stmt); err != nil {
				t.Fatalf("exec %s: %v\n%s", f, err, stmt)
			}
		}
	}
}

func propertyIDs(ps []domain.Property) []int64 {
	ids := make([]int64, 0, len(ps))
	for _, p := range ps {
		ids = append(ids, p.ID)
	}
	return ids
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ---------- the test ----------
func TestRepo_SeededDatabase(t *testing.T) {
	for _, driver := range []string{"postgres", "mysql"} {
		t.Run(driver, func(t *testing.T) {
			repo := startDB(t, driver)
			ctx := context.Background()

			// users
			u, err := repo.GetUserWithEmail(ctx, "jacksonrose@hotmail.com")
			if err != nil || u.ID != 2 || u.Name != "Louisa Meyer" {
				t.Fatalf("GetUserWithEmail: %+v, %v", u, err)
			}
			if _, err := repo.GetUserWithID(ctx, 999); !errors.Is(err, domain.ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
			nu, err := repo.AddUser(ctx, domain.NewUser{Name: "Kim Ito", Email: "kim@example.com", Password: "pw"})
			if err != nil || nu.ID != 4 || nu.Email != "kim@example.com" {
				t.Fatalf("AddUser: %+v, %v", nu, err)
			}
			if _, err := repo.AddUser(ctx, domain.NewUser{Name: "Dup", Email: "kim@example.com", Password: "pw"}); !errors.Is(err, domain.ErrConflict) {
				t.Fatalf("expected ErrConflict, got %v", err)
			}

			// reservations
			rs, err := repo.GetAllReservations(ctx, 3, 10)
			if err != nil || len(rs) != 3 {
				t.Fatalf("GetAllReservations: %d rows, %v", len(rs), err)
			}
			if rs[0].PropertyID != 1 || rs[0].Property.AverageRating == nil || *rs[0].Property.AverageRating != 4.5 {
				t.Fatalf("unexpected first reservation: %+v", rs[0])
			}
			if rs[0].StartDate.Format("2006-01-02") != "2018-09-11" {
				t.Fatalf("unexpected start date: %v", rs[0].StartDate)
			}
			if rs[2].Property.AverageRating != nil {
				t.Fatalf("expected nil rating for unreviewed property, got %v", *rs[2].Property.AverageRating)
			}
			if rs, _ := repo.GetAllReservations(ctx, 3, 2); len(rs) != 2 {
				t.Fatalf("limit not applied: %d rows", len(rs))
			}

			// properties
			cases := []struct {
				name string
				f    domain.PropertyFilter
				want []int64
			}{
				{"all by price", domain.PropertyFilter{}, []int64{4, 3, 2, 1}},
				{"city case-insensitive", domain.PropertyFilter{City: pstr("sotBOSKE")}, []int64{4, 1}},
				{"city substring", domain.PropertyFilter{City: pstr("hbat")}, []int64{2}},
				{"minimum rating", domain.PropertyFilter{MinimumRating: pfloat(4)}, []int64{3, 1}},
				{"owner and max price", domain.PropertyFilter{OwnerID: pint64(1), MaxPricePerNight: pint64(90000)}, []int64{2}},
				{"price range", domain.PropertyFilter{MinPricePerNight: pint64(12000), MaxPricePerNight: pint64(46058)}, []int64{4, 3}},
				{"page", domain.PropertyFilter{Limit: 2, Offset: 1}, []int64{3, 2}},
				{"nothing matches", domain.PropertyFilter{City: pstr("Atlantis")}, []int64{}},
			}
			for _, tc := range cases {
				ps, err := repo.GetAllProperties(ctx, tc.f)
				if err != nil {
					t.Fatalf("%s: %v", tc.name, err)
				}
				if got := propertyIDs(ps); !equalIDs(got, tc.want) {
					t.Fatalf("%s: got %v, want %v", tc.name, got, tc.want)
				}
			}

			p, err := repo.AddProperty(ctx, domain.NewProperty{
				OwnerID: nu.ID, Title: "New place", ThumbnailPhotoURL: "https://x.example/t.jpg", CoverPhotoURL: "https://x.example/c.jpg",
				CostPerNight: 15000, ParkingSpaces: 1, NumberOfBathrooms: 1, NumberOfBedrooms: 2,
				Country: "Canada", Street: "2 Main St", City: "Vancouver", Province: "BC", PostCode: "V5K0A1",
			})
			if err != nil || p.ID != 5 || !p.Active || p.OwnerID != nu.ID {
				t.Fatalf("AddProperty: %+v, %v", p, err)
			}
			if _, err := repo.AddProperty(ctx, domain.NewProperty{OwnerID: 999, Title: "x", CostPerNight: 1, Country: "c", Street: "s", City: "c", Province: "p", PostCode: "p"}); !errors.Is(err, domain.ErrInvalidReference) {
				t.Fatalf("expected ErrInvalidReference, got %v", err)
			}
		})
	}
}
