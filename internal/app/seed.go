package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"lightbnb/internal/adapters/observability"
	"lightbnb/internal/domain"
)

const (
	UsersFile      = "users.json"
	PropertiesFile = "properties.json"
)

type SeedOptions struct {
	Workers int
	// RPS caps inserts per second across all workers; 0 means unlimited.
	RPS int
}

// SeedReport counts what a run did. Failed records are logged and skipped.
type SeedReport struct {
	UsersAdded       int `json:"users_added"`
	UsersExisting    int `json:"users_existing"`
	UsersFailed      int `json:"users_failed"`
	PropertiesAdded  int `json:"properties_added"`
	PropertiesFailed int `json:"properties_failed"`
}

// SeedService loads users.json and properties.json fixtures. Users go in
// first so property owners can be remapped from fixture ids to stored ids.
type SeedService struct {
	repo    domain.Repository
	cmds    *CommandService
	workers int
	limiter *rate.Limiter
}

func NewSeedService(r domain.Repository, opts SeedOptions) *SeedService {
	s := &SeedService{repo: r, cmds: NewCommandService(r), workers: opts.Workers}
	if s.workers <= 0 {
		s.workers = 1
	}
	if opts.RPS > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(opts.RPS), 1)
	}
	return s
}

// SeedDir seeds from dir. A missing properties.json only seeds users;
// a missing users.json is an error.
func (s *SeedService) SeedDir(ctx context.Context, dir string) (SeedReport, error) {
	usersRaw, err := os.ReadFile(filepath.Join(dir, UsersFile))
	if err != nil {
		return SeedReport{}, fmt.Errorf("read users fixture: %w", err)
	}
	propsRaw, err := os.ReadFile(filepath.Join(dir, PropertiesFile))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return SeedReport{}, fmt.Errorf("read properties fixture: %w", err)
	}
	return s.Seed(ctx, usersRaw, propsRaw)
}

func (s *SeedService) Seed(ctx context.Context, usersJSON, propertiesJSON []byte) (SeedReport, error) {
	var rep SeedReport

	userRecs, err := decodeRecords(usersJSON)
	if err != nil {
		return rep, fmt.Errorf("users: %w", err)
	}
	users := make([]fixtureUser, 0, len(userRecs))
	for i, m := range userRecs {
		users = append(users, mapUser(m, i))
	}

	ids, err := s.seedUsers(ctx, users, &rep)
	if err != nil {
		return rep, err
	}

	if len(propertiesJSON) == 0 {
		log.Warn().Msg("no properties fixture, only users were seeded")
		return rep, nil
	}
	propRecs, err := decodeRecords(propertiesJSON)
	if err != nil {
		return rep, fmt.Errorf("properties: %w", err)
	}
	props := make([]fixtureProperty, 0, len(propRecs))
	for i, m := range propRecs {
		props = append(props, mapProperty(m, i))
	}
	if err := s.seedProperties(ctx, props, ids, &rep); err != nil {
		return rep, err
	}
	return rep, nil
}

// seedUsers returns fixture key -> stored user id.
func (s *SeedService) seedUsers(ctx context.Context, users []fixtureUser, rep *SeedReport) (map[int64]int64, error) {
	var mu sync.Mutex
	ids := make(map[int64]int64, len(users))

	err := s.fanOut(ctx, len(users), func(i int) {
		fu := users[i]
		u, err := s.cmds.AddUser(ctx, fu.User)
		existing := false
		if errors.Is(err, domain.ErrConflict) {
			u, err = s.repo.GetUserWithEmail(ctx, fu.User.Email)
			existing = err == nil
		}

		mu.Lock()
		defer mu.Unlock()
		switch {
		case err != nil:
			rep.UsersFailed++
			observability.ObserveSeed("user", "failed")
			log.Warn().Int64("key", fu.Key).Str("email", fu.User.Email).Err(err).Msg("seed user failed")
		case existing:
			rep.UsersExisting++
			ids[fu.Key] = u.ID
			observability.ObserveSeed("user", "existing")
			log.Debug().Int64("key", fu.Key).Int64("id", u.ID).Msg("seed user already present")
		default:
			rep.UsersAdded++
			ids[fu.Key] = u.ID
			observability.ObserveSeed("user", "added")
		}
	})
	return ids, err
}

func (s *SeedService) seedProperties(ctx context.Context, props []fixtureProperty, ids map[int64]int64, rep *SeedReport) error {
	var mu sync.Mutex

	return s.fanOut(ctx, len(props), func(i int) {
		fp := props[i]
		var err error
		owner, ok := ids[fp.OwnerKey]
		if !ok {
			err = fmt.Errorf("%w: owner %d is not a seeded user", domain.ErrInvalidReference, fp.OwnerKey)
		} else {
			fp.Property.OwnerID = owner
			_, err = s.cmds.AddProperty(ctx, fp.Property)
		}

		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			rep.PropertiesFailed++
			observability.ObserveSeed("property", "failed")
			log.Warn().Int64("key", fp.Key).Int64("owner_key", fp.OwnerKey).Err(err).Msg("seed property failed")
			return
		}
		rep.PropertiesAdded++
		observability.ObserveSeed("property", "added")
	})
}

// fanOut runs fn for 0..n-1 on at most s.workers goroutines, pacing starts by
// the limiter. It stops launching when ctx is done and reports ctx's error.
func (s *SeedService) fanOut(ctx context.Context, n int, fn func(i int)) error {
	sem := semaphore.NewWeighted(int64(s.workers))
	var wg sync.WaitGroup
	var stopErr error

	for i := 0; i < n; i++ {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			stopErr = err
			break
		}
		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				sem.Release(1)
				stopErr = err
				break
			}
		}

		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer sem.Release(1)
			fn(i)
		}(i)
	}

	wg.Wait()
	return stopErr
}
