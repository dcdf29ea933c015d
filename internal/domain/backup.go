package domain

import "context"

// RepoFile is a file fetched from the backup repository.
type RepoFile struct {
	SHA     string
	Content []byte
}

// BackupRepoClient is the version-control side of the database backup job:
// reading the current dump, pushing a new one on a branch, and opening a
// pull request. GetFile returns ErrNotFound when the path does not exist yet.
type BackupRepoClient interface {
	GetFile(ctx context.Context, path, ref string) (*RepoFile, error)
	CreateBranch(ctx context.Context, branch, fromBranch string) error
	PutFile(ctx context.Context, path, branch, message string, content []byte, sha string) error
	CreatePull(ctx context.Context, title, body, head, base string) (url string, err error)
	// HasOpenPullWithPrefix reports whether an open PR against base has a
	// title starting with prefix.
	HasOpenPullWithPrefix(ctx context.Context, prefix, base string) (bool, error)
}

// BackupJob runs one backup-and-PR cycle.
type BackupJob interface {
	Name() string
	Run(ctx context.Context) error
}
