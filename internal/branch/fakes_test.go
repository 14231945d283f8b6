package branch

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/raphi011/mrb/internal/git"
	"github.com/raphi011/mrb/internal/task"
)

// journal records calls from several fakes in one order.
type journal struct {
	mu     sync.Mutex
	events []string
}

func (j *journal) add(format string, args ...any) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.events = append(j.events, fmt.Sprintf(format, args...))
}

func (j *journal) get() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return slices.Clone(j.events)
}

// fakeClient records every call. Errors are consumed per "op root" key in
// order; once a queue is empty calls succeed.
type fakeClient struct {
	log *journal

	mu      sync.Mutex
	errs    map[string][]error
	history map[string][]git.Commit
	histErr map[string]error
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		log:     &journal{},
		errs:    make(map[string][]error),
		history: make(map[string][]git.Commit),
		histErr: make(map[string]error),
	}
}

func (f *fakeClient) failNext(key string, errs ...error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[key] = append(f.errs[key], errs...)
}

func (f *fakeClient) next(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	q := f.errs[key]
	if len(q) == 0 {
		return nil
	}
	f.errs[key] = q[1:]
	return q[0]
}

func (f *fakeClient) Checkout(_ context.Context, root, ref string) error {
	f.log.add("checkout %s %s", root, ref)
	return f.next("checkout " + root)
}

func (f *fakeClient) CreateBranch(_ context.Context, root, name, from string) error {
	f.log.add("branch %s %s %s", root, name, from)
	return f.next("branch " + root)
}

func (f *fakeClient) DeleteBranch(_ context.Context, root, name string, force bool) error {
	f.log.add("delete %s %s %v", root, name, force)
	return f.next("delete " + root)
}

func (f *fakeClient) CreateTag(_ context.Context, root, name, message, ref string) error {
	f.log.add("tag %s %s %q %s", root, name, message, ref)
	return f.next("tag " + root)
}

func (f *fakeClient) History(_ context.Context, root, rangeExpr string) ([]git.Commit, error) {
	f.log.add("log %s %s", root, rangeExpr)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.histErr[rangeExpr]; err != nil {
		return nil, err
	}
	return f.history[rangeExpr], nil
}

func conflictIn(root string, kind git.ObstructionKind, files ...string) *ConflictError {
	return &ConflictError{Root: root, Kind: kind, Files: files}
}

// countingResolver answers every Resolve with result.
type countingResolver struct {
	result bool
	err    error

	mu        sync.Mutex
	calls     int
	conflicts []Conflict
	desc      Description
}

func (r *countingResolver) Resolve(_ context.Context, conflicts []Conflict, desc Description) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.conflicts = append(r.conflicts, conflicts...)
	r.desc = desc
	return r.result, r.err
}

func (r *countingResolver) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

// fakeStasher writes to the same journal as the client.
type fakeStasher struct {
	log      *journal
	nothing  bool
	popErr   error
	unmerged []string
	listErr  error
}

func (s *fakeStasher) ListUnmergedFiles(_ context.Context, root string) ([]string, error) {
	s.log.add("unmerged %s", root)
	return s.unmerged, s.listErr
}

func (s *fakeStasher) Stash(_ context.Context, root string) (bool, error) {
	s.log.add("stash %s", root)
	return !s.nothing, nil
}

func (s *fakeStasher) StashPop(_ context.Context, root string) error {
	s.log.add("pop %s", root)
	return s.popErr
}

type fakePresenter struct {
	mu          sync.Mutex
	infos       []string
	comparisons []comparison
}

type comparison struct {
	repo          *Repository
	ahead, behind []git.Commit
	branchName    string
}

func (p *fakePresenter) ShowInfo(message, title string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.infos = append(p.infos, title+": "+message)
	return nil
}

func (p *fakePresenter) ShowComparison(repo *Repository, ahead, behind []git.Commit, branchName string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.comparisons = append(p.comparisons, comparison{repo, ahead, behind, branchName})
	return nil
}

func (p *fakePresenter) shown() (int, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.infos), len(p.comparisons)
}

func newRepos(branches ...string) []*Repository {
	out := make([]*Repository, len(branches))
	for i, b := range branches {
		out[i] = NewRepository(fmt.Sprintf("/src/r%d", i), b)
	}
	return out
}

func commits(subjects ...string) []git.Commit {
	out := make([]git.Commit, len(subjects))
	for i, s := range subjects {
		out[i] = git.Commit{Hash: fmt.Sprintf("%040d", i), ShortHash: fmt.Sprintf("%07d", i), Subject: s}
	}
	return out
}

// startRunner returns a runner backed by a live loop and a quiet pool.
func startRunner(t *testing.T) *task.Runner {
	t.Helper()
	l := task.NewLoop()
	go l.Run(context.Background())
	t.Cleanup(func() {
		l.Shutdown()
		<-l.Stopped()
	})
	pool := task.NewPool(task.WithFailureReporter(func(context.Context, string, error) {}))
	return task.NewRunner(l, pool, nil)
}

func waitTask(t *testing.T, h *task.Handle) error {
	t.Helper()
	if h == nil {
		t.Fatal("no task was submitted")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	select {
	case <-h.Done():
		return h.Err()
	case <-ctx.Done():
		t.Fatalf("task %q did not finish", h.Title())
		return nil
	}
}
