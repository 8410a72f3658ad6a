package git

import (
	"fmt"
	"slices"
	"strings"

	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// RefLabels maps commit ids to the badges shown next to them: branches,
// remote branches, tags (peeled to their commit) and the HEAD marker.
func (r *Repository) RefLabels() (map[string][]string, error) {
	repo, err := r.handle()
	if err != nil {
		return nil, err
	}
	return refLabels(repo)
}

func refLabels(repo *gitlib.Repository) (map[string][]string, error) {
	labels := map[string][]string{}
	refs, err := repo.References()
	if err != nil {
		return nil, ioError("list references", err)
	}
	defer refs.Close()
	var headHash plumbing.Hash
	var headBranch string
	if headRef, err := repo.Head(); err == nil && headRef != nil {
		headHash = headRef.Hash()
		if headRef.Name().IsBranch() {
			headBranch = headRef.Name().Short()
		}
	}
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		if ref.Type() != plumbing.HashReference {
			return nil
		}
		name := ref.Name()
		isTag := name.IsTag()
		if !name.IsBranch() && !name.IsRemote() && !isTag {
			return nil
		}
		short := name.Short()
		if name.IsRemote() && strings.HasSuffix(short, "/HEAD") {
			return nil
		}
		hash := ref.Hash()
		label := short
		if isTag {
			label = "tag: " + short
			if peeled, ok := peelTag(repo, hash); ok {
				hash = peeled
			}
		}
		labels[hash.String()] = append(labels[hash.String()], label)
		return nil
	})
	if err != nil {
		return nil, ioError("walk references", err)
	}
	for _, l := range labels {
		slices.Sort(l)
	}
	if headHash != plumbing.ZeroHash {
		key := headHash.String()
		label := "HEAD"
		if headBranch != "" {
			label = fmt.Sprintf("HEAD -> %s", headBranch)
			labels[key] = slices.DeleteFunc(labels[key], func(l string) bool { return l == headBranch })
		}
		labels[key] = append([]string{label}, labels[key]...)
	}
	return labels, nil
}

func peelTag(repo *gitlib.Repository, hash plumbing.Hash) (plumbing.Hash, bool) {
	if hash == plumbing.ZeroHash {
		return plumbing.ZeroHash, false
	}
	// Lightweight tags point directly at a commit; annotated tags point at a tag object.
	if _, err := repo.CommitObject(hash); err == nil {
		return hash, true
	}
	cur := hash
	for range 8 {
		tag, err := repo.TagObject(cur)
		if err != nil {
			return plumbing.ZeroHash, false
		}
		switch tag.TargetType {
		case plumbing.CommitObject:
			return tag.Target, true
		case plumbing.TagObject:
			cur = tag.Target
		default:
			return plumbing.ZeroHash, false
		}
	}
	return plumbing.ZeroHash, false
}
