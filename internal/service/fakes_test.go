package service

import (
	"context"
	"errors"
	"sync"

	"monke-bot/internal/api"
	"monke-bot/internal/domain"
)

var errBoom = errors.New("boom")

type fakeStore struct {
	mu      sync.Mutex
	records map[string]domain.MatchRecord
	getErr  error
	putErr  error
	gets    int
	puts    [][]domain.MatchRecord
}

func newFakeStore(records ...domain.MatchRecord) *fakeStore {
	s := &fakeStore{records: map[string]domain.MatchRecord{}}
	for _, r := range records {
		s.records[string(r.Kind)+r.ID] = r
	}
	return s
}

func (s *fakeStore) BatchGet(_ context.Context, kind domain.GameKind, ids []string) (map[string]domain.MatchRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets++
	if s.getErr != nil {
		return nil, s.getErr
	}
	found := map[string]domain.MatchRecord{}
	for _, id := range ids {
		if r, ok := s.records[string(kind)+id]; ok {
			found[id] = r
		}
	}
	return found, nil
}

func (s *fakeStore) BatchPut(_ context.Context, records []domain.MatchRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.puts = append(s.puts, records)
	if s.putErr != nil {
		return s.putErr
	}
	for _, r := range records {
		s.records[string(r.Kind)+r.ID] = r
	}
	return nil
}

type fakeSource struct {
	mu      sync.Mutex
	records map[string]domain.MatchRecord
	errs    map[string]error
	calls   []string
}

func newFakeSource(records ...domain.MatchRecord) *fakeSource {
	s := &fakeSource{records: map[string]domain.MatchRecord{}, errs: map[string]error{}}
	for _, r := range records {
		s.records[r.ID] = r
	}
	return s
}

func (s *fakeSource) Fetch(_ context.Context, _ domain.GameKind, id string) (domain.MatchRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, id)
	if err, ok := s.errs[id]; ok {
		return domain.MatchRecord{}, err
	}
	r, ok := s.records[id]
	if !ok {
		return domain.MatchRecord{}, domain.ErrNotFound
	}
	return r, nil
}

type fakeSnapshots struct {
	snapshots []domain.RankSnapshot
	err       error
	added     []domain.RankSnapshot
}

func (f *fakeSnapshots) QueryRange(_ context.Context, playerID string, kind domain.GameKind, start, end int64) ([]domain.RankSnapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.RankSnapshot
	for _, s := range f.snapshots {
		if s.PlayerID == playerID && s.Kind == kind && s.Timestamp >= start && s.Timestamp <= end {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSnapshots) AddBatch(_ context.Context, snapshots []domain.RankSnapshot) error {
	if f.err != nil {
		return f.err
	}
	f.added = append(f.added, snapshots...)
	return nil
}

type fakeTracking struct {
	entries []domain.TrackingEntry
	err     error
}

func (f *fakeTracking) Track(_ context.Context, entry domain.TrackingEntry) error {
	for _, e := range f.entries {
		if e.Kind == entry.Kind && e.SummonerID == entry.SummonerID {
			return domain.ErrAlreadyTracked
		}
	}
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeTracking) Untrack(_ context.Context, kind domain.GameKind, summonerID string) error {
	for i, e := range f.entries {
		if e.Kind == kind && e.SummonerID == summonerID {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotTracked
}

func (f *fakeTracking) List(_ context.Context, kind domain.GameKind) ([]domain.TrackingEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.TrackingEntry
	for _, e := range f.entries {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeRiot struct {
	mu         sync.Mutex
	accounts   map[string]api.AccountDTO // "name#tag"
	summoners  map[string]api.SummonerDTO
	entries    map[string][]api.LeagueEntryDTO
	entryErrs  map[string]error
	matchIDs   []string
	idsQueries []api.MatchIDsQuery
}

func newFakeRiot() *fakeRiot {
	return &fakeRiot{
		accounts:  map[string]api.AccountDTO{},
		summoners: map[string]api.SummonerDTO{},
		entries:   map[string][]api.LeagueEntryDTO{},
		entryErrs: map[string]error{},
	}
}

func (f *fakeRiot) addPlayer(gameName, tagLine, puuid, summonerID string) {
	f.accounts[gameName+"#"+tagLine] = api.AccountDTO{PUUID: puuid, GameName: gameName, TagLine: tagLine}
	f.summoners[puuid] = api.SummonerDTO{ID: summonerID, PUUID: puuid}
}

func (f *fakeRiot) GetAccountByRiotID(_ context.Context, gameName, tagLine string) (*api.AccountDTO, error) {
	a, ok := f.accounts[gameName+"#"+tagLine]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &a, nil
}

func (f *fakeRiot) GetSummonerByPUUID(_ context.Context, _ domain.GameKind, puuid string) (*api.SummonerDTO, error) {
	s, ok := f.summoners[puuid]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &s, nil
}

func (f *fakeRiot) GetLeagueEntries(_ context.Context, _ domain.GameKind, summonerID string) ([]api.LeagueEntryDTO, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.entryErrs[summonerID]; ok {
		return nil, err
	}
	return f.entries[summonerID], nil
}

func (f *fakeRiot) GetMatchIDs(_ context.Context, _ domain.GameKind, _ string, q api.MatchIDsQuery) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.idsQueries = append(f.idsQueries, q)
	return f.matchIDs, nil
}
