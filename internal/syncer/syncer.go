// Package syncer implements the four opsync workflows by composing
// the vault client, the fly publisher, the repository resolver, and
// the edit session. Each workflow is a single top-to-bottom sequence:
// the first error aborts it and there is no rollback.
package syncer

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/systmms/opsync/internal/envfile"
	"github.com/systmms/opsync/internal/logging"
)

// Timestamp labels stamped onto vault items after mutating actions.
const (
	stampImportedLabel = "last imported at"
	stampEditedLabel   = "last edited at"
)

// Vault is the lookup/update contract against the password vault.
type Vault interface {
	FindItemIDByTitle(ctx context.Context, substring string) (string, error)
	Notes(ctx context.Context, itemID string) (string, error)
	FileName(ctx context.Context, itemID string) (string, error)
	SetNotes(ctx context.Context, itemID, content string) error
	StampTimestamp(ctx context.Context, itemID, label string, t time.Time) error
}

// Publisher replaces a fly application's secret set.
type Publisher interface {
	SetSecrets(ctx context.Context, appID string, secrets map[string]string) (int, error)
}

// RepoResolver derives the current repository identity.
type RepoResolver interface {
	CurrentRepository(ctx context.Context) (string, error)
}

// Editor runs an interactive edit session over secret content.
type Editor interface {
	Edit(ctx context.Context, content string) (string, error)
}

// Options configures a Syncer. Zero-value fields get sensible
// defaults from New.
type Options struct {
	Vault  Vault
	Fly    Publisher
	Repo   RepoResolver
	Editor Editor
	Logger *logging.Logger

	// Out receives user-facing status lines. Defaults to os.Stdout.
	Out io.Writer
	// In is read for interactive prompts. Defaults to os.Stdin.
	In io.Reader
	// Dir is the working directory for local env files. Defaults to ".".
	Dir string
	// Now supplies timestamps. Defaults to time.Now.
	Now func() time.Time
	// NonInteractive answers "n" to prompts without reading In.
	NonInteractive bool
}

// Syncer orchestrates the opsync workflows.
type Syncer struct {
	vault          Vault
	fly            Publisher
	repo           RepoResolver
	editor         Editor
	logger         *logging.Logger
	out            io.Writer
	in             io.Reader
	dir            string
	now            func() time.Time
	nonInteractive bool
}

// New creates a Syncer from the given options.
func New(opts Options) *Syncer {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Dir == "" {
		opts.Dir = "."
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logging.New(false, false)
	}
	return &Syncer{
		vault:          opts.Vault,
		fly:            opts.Fly,
		repo:           opts.Repo,
		editor:         opts.Editor,
		logger:         opts.Logger,
		out:            opts.Out,
		in:             opts.In,
		dir:            opts.Dir,
		now:            opts.Now,
		nonInteractive: opts.NonInteractive,
	}
}

// ImportToFly reads the env payload of the item titled "fly:<app>",
// parses it, and replaces the fly application's entire secret set.
func (s *Syncer) ImportToFly(ctx context.Context, appID string) error {
	itemID, err := s.vault.FindItemIDByTitle(ctx, "fly:"+appID)
	if err != nil {
		return err
	}

	notes, err := s.vault.Notes(ctx, itemID)
	if err != nil {
		return err
	}

	secrets, err := envfile.Parse(notes)
	if err != nil {
		return fmt.Errorf("failed to parse secrets as env file: %w", err)
	}

	version, err := s.fly.SetSecrets(ctx, appID, secrets)
	if err != nil {
		return err
	}

	if err := s.vault.StampTimestamp(ctx, itemID, stampImportedLabel, s.now()); err != nil {
		return err
	}

	fmt.Fprintf(s.out, "Releasing fly app %s version %d\n", appID, version)
	return nil
}

// EditFlySecrets opens the "fly:<app>" payload in the editor, writes
// the result back to the vault when it changed, and optionally chains
// into ImportToFly after an interactive confirmation.
func (s *Syncer) EditFlySecrets(ctx context.Context, appID string) error {
	itemID, err := s.vault.FindItemIDByTitle(ctx, "fly:"+appID)
	if err != nil {
		return err
	}

	notes, err := s.vault.Notes(ctx, itemID)
	if err != nil {
		return err
	}

	edited, err := s.editor.Edit(ctx, notes)
	if err != nil {
		return err
	}

	if edited == notes {
		fmt.Fprintln(s.out, "No changes detected, aborting.")
		return nil
	}

	if err := s.vault.SetNotes(ctx, itemID, edited); err != nil {
		return err
	}
	if err := s.vault.StampTimestamp(ctx, itemID, stampEditedLabel, s.now()); err != nil {
		return err
	}

	confirmed, err := s.confirmImport(appID)
	if err != nil {
		return err
	}
	if confirmed {
		return s.ImportToFly(ctx, appID)
	}
	return nil
}

// GetLocal writes the repository's env payload from the vault into
// the local env file, overwriting it with the raw notes text.
func (s *Syncer) GetLocal(ctx context.Context) error {
	itemID, err := s.findRepositoryItem(ctx)
	if err != nil {
		return err
	}

	notes, err := s.vault.Notes(ctx, itemID)
	if err != nil {
		return err
	}

	fileName, err := s.envFileName(ctx, itemID)
	if err != nil {
		return err
	}

	if err := os.WriteFile(filepath.Join(s.dir, fileName), []byte(notes), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", fileName, err)
	}

	fmt.Fprintf(s.out, "Successfully updated %s from 1password\n", fileName)
	return nil
}

// PushLocal uploads the local env file's raw text into the
// repository's vault item.
func (s *Syncer) PushLocal(ctx context.Context) error {
	itemID, err := s.findRepositoryItem(ctx)
	if err != nil {
		return err
	}

	fileName, err := s.envFileName(ctx, itemID)
	if err != nil {
		return err
	}

	content, err := os.ReadFile(filepath.Join(s.dir, fileName))
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", fileName, err)
	}

	if err := s.vault.SetNotes(ctx, itemID, string(content)); err != nil {
		return err
	}
	if err := s.vault.StampTimestamp(ctx, itemID, stampEditedLabel, s.now()); err != nil {
		return err
	}

	fmt.Fprintf(s.out, "Successfully pushed secrets from %s to 1password\n", fileName)
	return nil
}

func (s *Syncer) findRepositoryItem(ctx context.Context) (string, error) {
	repository, err := s.repo.CurrentRepository(ctx)
	if err != nil {
		return "", err
	}
	s.logger.Debug("resolved repository identity %s", repository)
	return s.vault.FindItemIDByTitle(ctx, "repo:"+repository)
}

func (s *Syncer) envFileName(ctx context.Context, itemID string) (string, error) {
	fileName, err := s.vault.FileName(ctx, itemID)
	if err != nil {
		return "", err
	}
	if fileName == "" {
		return envfile.DefaultFileName, nil
	}
	return fileName, nil
}

// confirmImport prompts for a y/n answer, repeating until the input
// is valid. Non-interactive mode declines without prompting; a read
// failure (e.g. closed stdin) terminates the loop with an error.
func (s *Syncer) confirmImport(appID string) (bool, error) {
	if s.nonInteractive {
		s.logger.Debug("non-interactive mode, skipping fly import prompt")
		return false, nil
	}

	reader := bufio.NewReader(s.in)
	for {
		fmt.Fprintf(s.out, "Secrets updated in 1password, do you wish to import secrets to the fly app %s (y/n)?\n", appID)

		line, err := reader.ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y":
			return true, nil
		case "n":
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("failed to read confirmation: %w", err)
		}
	}
}
