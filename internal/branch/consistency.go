package branch

// CheckConsistency returns the branch every repository is on.
// Repositories that disagree yield a *DivergenceError.
func CheckConsistency(repos []*Repository) (string, error) {
	if len(repos) == 0 {
		return "", ErrNoRepositories
	}

	shared := repos[0].CurrentBranch()
	diverged := false
	branches := make([]RootBranch, len(repos))
	for i, r := range repos {
		b := r.CurrentBranch()
		branches[i] = RootBranch{Root: r.Root, Branch: b}
		if b != shared {
			diverged = true
		}
	}

	if diverged {
		return "", &DivergenceError{Branches: branches}
	}
	return shared, nil
}
