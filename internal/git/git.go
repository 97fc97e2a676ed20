package git

import (
	stderrors "errors"

	"github.com/go-git/go-git/v5"

	"git.home.luguber.info/inful/projectsite/internal/foundation/errors"
)

const shortHashLen = 7

func open(path string) (*git.Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if stderrors.Is(err, git.ErrRepositoryNotExists) {
		return nil, ErrNotARepository.WithContext("path", path)
	}
	if err != nil {
		return nil, errors.StructuralIOError("failed to open git repository").
			WithCause(err).WithContext("path", path).Build()
	}
	return repo, nil
}

// InferRepository returns the first URL of the "origin" remote of the repository
// enclosing path.
func InferRepository(path string) (string, error) {
	repo, err := open(path)
	if err != nil {
		return "", err
	}
	remote, err := repo.Remote("origin")
	if stderrors.Is(err, git.ErrRemoteNotFound) {
		return "", ErrNoOrigin.WithContext("path", path)
	}
	if err != nil {
		return "", errors.StructuralIOError("failed to read origin remote").
			WithCause(err).WithContext("path", path).Build()
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", ErrNoOrigin.WithContext("path", path)
	}
	return urls[0], nil
}

// HeadShort returns the abbreviated hash of HEAD.
func HeadShort(path string) (string, error) {
	repo, err := open(path)
	if err != nil {
		return "", err
	}
	ref, err := repo.Head()
	if err != nil {
		return "", errors.StructuralIOError("failed to resolve HEAD").
			WithCause(err).WithContext("path", path).Build()
	}
	hash := ref.Hash().String()
	if len(hash) > shortHashLen {
		hash = hash[:shortHashLen]
	}
	return hash, nil
}
