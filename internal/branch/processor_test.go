package branch

import (
	"context"
	"errors"
	"slices"
	"sync/atomic"
	"testing"

	"github.com/raphi011/mrb/internal/git"
)

func subjectsOf(cs []git.Commit) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Subject
	}
	return out
}

func TestRequest_Title(t *testing.T) {
	t.Parallel()

	tests := []struct {
		req  Request
		want string
	}{
		{Request{Kind: KindCheckout, Target: "feature-x"}, "Checking out feature-x"},
		{Request{Kind: KindCheckoutNewBranch, Target: "topic"}, "Checking out new branch topic"},
		{Request{Kind: KindCheckoutNewBranchFrom, Target: "topic", StartPoint: "v1"}, "Checking out v1"},
		{Request{Kind: KindDeleteBranch, Target: "old"}, "Deleting old"},
		{Request{Kind: KindCreateTag, Target: "v1"}, "Creating tag v1"},
		{Request{Kind: KindCompare, Target: "release"}, "Comparing with release"},
	}

	for _, tt := range tests {
		if got := tt.req.Title(); got != tt.want {
			t.Errorf("Title() = %q, want %q", got, tt.want)
		}
	}
}

func TestProcessor_CompareScope(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, 2} {
		client := newFakeClient()
		presenter := &fakePresenter{}
		branches := slices.Repeat([]string{"main"}, n)
		p := NewProcessor(newRepos(branches...), startRunner(t), client, nil, presenter)

		if h := p.Compare(context.Background(), "release"); h != nil {
			t.Errorf("Compare() with %d repositories submitted a task", n)
		}
		if calls := client.log.get(); len(calls) != 0 {
			t.Errorf("Compare() with %d repositories queried history: %v", n, calls)
		}
		if infos, comps := presenter.shown(); infos+comps != 0 {
			t.Errorf("Compare() with %d repositories showed a dialog", n)
		}
	}
}

func TestProcessor_CompareNoChanges(t *testing.T) {
	t.Parallel()

	presenter := &fakePresenter{}
	p := NewProcessor(newRepos("main"), startRunner(t), newFakeClient(), nil, presenter)

	if err := waitTask(t, p.Compare(context.Background(), "release")); err != nil {
		t.Fatalf("compare task error = %v", err)
	}

	if len(presenter.comparisons) != 0 {
		t.Error("empty compare must not show a comparison view")
	}
	want := []string{"No Changes Detected: There are no changes between main and release"}
	if !slices.Equal(presenter.infos, want) {
		t.Errorf("infos = %v, want %v", presenter.infos, want)
	}
}

func TestProcessor_CompareShowsAheadFirst(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	client.history["release.."] = commits("c1", "c2", "c3")
	presenter := &fakePresenter{}
	rs := newRepos("main")
	p := NewProcessor(rs, startRunner(t), client, nil, presenter)

	if err := waitTask(t, p.Compare(context.Background(), "release")); err != nil {
		t.Fatalf("compare task error = %v", err)
	}

	if len(presenter.infos) != 0 {
		t.Errorf("unexpected info %v", presenter.infos)
	}
	if len(presenter.comparisons) != 1 {
		t.Fatalf("comparisons = %d, want 1", len(presenter.comparisons))
	}
	c := presenter.comparisons[0]
	if got := subjectsOf(c.ahead); !slices.Equal(got, []string{"c1", "c2", "c3"}) {
		t.Errorf("ahead = %v, want [c1 c2 c3]", got)
	}
	if len(c.behind) != 0 {
		t.Errorf("behind = %v, want empty", subjectsOf(c.behind))
	}
	if c.repo != rs[0] || c.branchName != "release" {
		t.Errorf("comparison for %v/%q", c.repo, c.branchName)
	}
}

func TestProcessor_CompareFailureFailsTask(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	client.histErr["release.."] = errors.New("bad object")
	presenter := &fakePresenter{}
	p := NewProcessor(newRepos("main"), startRunner(t), client, nil, presenter)

	var execErr *ExecutionError
	if err := waitTask(t, p.Compare(context.Background(), "release")); !errors.As(err, &execErr) {
		t.Errorf("task error = %v, want *ExecutionError", err)
	}
	if infos, comps := presenter.shown(); infos+comps != 0 {
		t.Error("failed compare must not show anything")
	}
}

func TestProcessor_CallbackOnSuccessOnly(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	client.failNext("tag /src/r1", errors.New("exists"))
	runner := startRunner(t)

	var calls atomic.Int32
	p := NewProcessor(newRepos("main", "main"), runner, client, nil, &fakePresenter{},
		WithCallback(func(context.Context) { calls.Add(1) }))

	if err := waitTask(t, p.Checkout(context.Background(), "dev")); err != nil {
		t.Fatalf("checkout error = %v", err)
	}
	if err := waitTask(t, p.CreateNewTag(context.Background(), "v1", "HEAD")); err == nil {
		t.Fatal("tag task should fail on r1")
	}
	// Flush the loop so a wrongly scheduled callback would have run.
	if err := runner.InvokeAndWait(context.Background(), func(context.Context) error { return nil }); err != nil {
		t.Fatal(err)
	}

	if got := calls.Load(); got != 1 {
		t.Errorf("callback ran %d times, want once (checkout only)", got)
	}
}

func TestProcessor_Operations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		run  func(t *testing.T, p *Processor) error
		want []string
	}{
		{
			name: "checkout new branch",
			run: func(t *testing.T, p *Processor) error {
				return waitTask(t, p.CheckoutNewBranch(context.Background(), "topic"))
			},
			want: []string{"branch /src/r0 topic main", "branch /src/r1 topic main"},
		},
		{
			name: "checkout new branch from",
			run: func(t *testing.T, p *Processor) error {
				return waitTask(t, p.CheckoutNewBranchFrom(context.Background(), "topic", "v2"))
			},
			want: []string{"branch /src/r0 topic v2", "branch /src/r1 topic v2"},
		},
		{
			name: "delete",
			run: func(t *testing.T, p *Processor) error {
				return waitTask(t, p.DeleteBranch(context.Background(), "old", true))
			},
			want: []string{"delete /src/r0 old true", "delete /src/r1 old true"},
		},
		{
			name: "annotated tag",
			run: func(t *testing.T, p *Processor) error {
				return waitTask(t, p.CreateNewAnnotatedTag(context.Background(), "v1", "first", "HEAD"))
			},
			want: []string{`tag /src/r0 v1 "first" HEAD`, `tag /src/r1 v1 "first" HEAD`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := newFakeClient()
			p := NewProcessor(newRepos("main", "main"), startRunner(t), client, nil, &fakePresenter{})
			if err := tt.run(t, p); err != nil {
				t.Fatalf("task error = %v", err)
			}
			if got := client.log.get(); !slices.Equal(got, tt.want) {
				t.Errorf("calls = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProcessor_DivergedFailsTask(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	p := NewProcessor(newRepos("main", "dev"), startRunner(t), client, nil, &fakePresenter{})

	if err := waitTask(t, p.Checkout(context.Background(), "release")); !errors.Is(err, ErrDiverged) {
		t.Errorf("task error = %v, want ErrDiverged", err)
	}
	if calls := client.log.get(); len(calls) != 0 {
		t.Errorf("client called: %v", calls)
	}
}
