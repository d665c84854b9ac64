package folio

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"go.uber.org/zap"
)

const remoteName = "origin"

// DeployReport describes a finished deploy.
type DeployReport struct {
	Branch   string
	Commit   string // Empty when there was nothing new to commit
	UpToDate bool   // The remote already had the commit
}

// Deploy commits the output directory to the configured branch and pushes
// it to the configured remote. The output directory doubles as the git
// work tree; builds keep its .git directory in place.
func (a *App) Deploy(ctx context.Context) (DeployReport, error) {
	cfg := a.Config.Deploy
	if cfg.Repo == "" {
		return DeployReport{}, fmt.Errorf("%w: deploy.repo is required", ErrInvalidConfig)
	}
	dir := a.Config.Build.OutputDir
	branch := plumbing.NewBranchReferenceName(cfg.Branch)
	report := DeployReport{Branch: cfg.Branch}

	repo, err := openOrInit(dir)
	if err != nil {
		return report, fmt.Errorf("folio: deploy: %w", err)
	}
	if err := repo.Storer.SetReference(plumbing.NewSymbolicReference(plumbing.HEAD, branch)); err != nil {
		return report, fmt.Errorf("folio: deploy: checkout %s: %w", cfg.Branch, err)
	}
	if err := ensureRemote(repo, cfg.Repo); err != nil {
		return report, fmt.Errorf("folio: deploy: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return report, fmt.Errorf("folio: deploy: %w", err)
	}
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return report, fmt.Errorf("folio: deploy: stage: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return report, fmt.Errorf("folio: deploy: status: %w", err)
	}
	_, headErr := repo.Reference(branch, true)
	if !status.IsClean() || errors.Is(headErr, plumbing.ErrReferenceNotFound) {
		hash, err := wt.Commit("Deploy "+time.Now().UTC().Format(time.RFC3339), &git.CommitOptions{
			Author: &object.Signature{
				Name:  cfg.AuthorName,
				Email: cfg.AuthorEmail,
				When:  time.Now(),
			},
			AllowEmptyCommits: true,
		})
		if err != nil {
			return report, fmt.Errorf("folio: deploy: commit: %w", err)
		}
		report.Commit = hash.String()
	}

	refSpec := gitconfig.RefSpec(fmt.Sprintf("+%s:%s", branch, branch))
	err = repo.PushContext(ctx, &git.PushOptions{
		RemoteName: remoteName,
		RefSpecs:   []gitconfig.RefSpec{refSpec},
		Auth:       deployAuth(cfg),
		Force:      true,
	})
	switch {
	case errors.Is(err, git.NoErrAlreadyUpToDate):
		report.UpToDate = true
	case err != nil:
		return report, fmt.Errorf("folio: deploy: push: %w", err)
	}

	a.Logger.Info("site deployed",
		zap.String("remote", cfg.Repo),
		zap.String("branch", cfg.Branch),
		zap.String("commit", report.Commit),
		zap.Bool("up_to_date", report.UpToDate),
	)
	return report, nil
}

func openOrInit(dir string) (*git.Repository, error) {
	repo, err := git.PlainOpen(dir)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return git.PlainInit(dir, false)
	}
	return repo, err
}

// ensureRemote points the origin remote at url.
func ensureRemote(repo *git.Repository, url string) error {
	remote, err := repo.Remote(remoteName)
	switch {
	case errors.Is(err, git.ErrRemoteNotFound):
	case err != nil:
		return err
	default:
		if urls := remote.Config().URLs; len(urls) == 1 && urls[0] == url {
			return nil
		}
		if err := repo.DeleteRemote(remoteName); err != nil {
			return err
		}
	}
	_, err = repo.CreateRemote(&gitconfig.RemoteConfig{Name: remoteName, URLs: []string{url}})
	return err
}

func deployAuth(cfg DeployConfig) transport.AuthMethod {
	if cfg.Token == "" {
		return nil
	}
	return &http.BasicAuth{
		Username: "token",
		Password: cfg.Token,
	}
}
