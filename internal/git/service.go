package git

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"martforge/pkg/errors"
	"martforge/pkg/models"
)

// Service syncs the reference repository configured for the pipeline.
type Service struct {
	cacheDir string
}

// NewService creates a new git service
func NewService() *Service {
	return &Service{
		cacheDir: CacheDirectory(),
	}
}

// ResolveReferenceFile returns the local path of the reference YAML file.
// With no git URL configured it is the configured file path as-is; with a
// git URL the repository is synced first and the file resolved inside the
// local clone.
func (s *Service) ResolveReferenceFile(cfg models.Reference) (string, error) {
	if cfg.GitURL == "" {
		return cfg.File, nil
	}

	localPath := cfg.Path
	if localPath == "" {
		localPath = s.cacheDir
	}

	if err := s.syncRepository(cfg.GitURL, localPath, cfg.Branch); err != nil {
		return "", err
	}

	file := cfg.File
	if file == "" {
		file = "reference.yaml"
	}
	return filepath.Join(localPath, file), nil
}

// syncRepository clones or updates the reference repository, retrying
// transient network failures.
func (s *Service) syncRepository(gitURL, localPath, branch string) error {
	ctx := context.Background()
	err := errors.RetryWithBackoff(ctx, func(ctx context.Context) error {
		if err := CloneOrFetch(gitURL, localPath); err != nil {
			if strings.Contains(err.Error(), "connection") ||
				strings.Contains(err.Error(), "timeout") ||
				strings.Contains(err.Error(), "unreachable") {
				return errors.New(errors.ErrCodeNetworkUnavailable,
					"Network error while syncing reference repository").
					WithContext("url", gitURL).
					AsRecoverable()
			}

			if strings.Contains(err.Error(), "authentication") ||
				strings.Contains(err.Error(), "unauthorized") {
				return errors.New(errors.ErrCodeAuthenticationFailed,
					"Authentication failed for reference repository").
					WithContext("url", gitURL).
					WithSuggestions(
						"Check your Git credentials",
						"Ensure you have access to the repository",
					)
			}

			return errors.Wrap(err, errors.ErrCodeReferenceSync,
				"Failed to sync reference repository")
		}

		return nil
	})
	if err != nil {
		return err
	}

	if branch != "" && branch != "main" && branch != "master" {
		if err := CheckoutBranch(localPath, branch); err != nil {
			return errors.Wrap(err, errors.ErrCodeReferenceSync,
				fmt.Sprintf("Failed to checkout branch %s", branch)).
				WithContext("branch", branch).
				WithSuggestions(fmt.Sprintf("Verify branch '%s' exists", branch))
		}
	}

	return nil
}
