// Package vault wraps the 1Password CLI (`op`). Secrets live in
// Secure Note items whose notesPlain field holds an entire env-file
// payload; items are looked up by a substring of their title.
package vault

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/systmms/opsync/internal/errors"
	"github.com/systmms/opsync/internal/logging"
	pkgexec "github.com/systmms/opsync/pkg/exec"
)

// secureNoteCategory is the item category expected to hold env payloads.
const secureNoteCategory = "Secure Note"

// notesFieldID is the field id carrying the serialized secret payload.
const notesFieldID = "notesPlain"

// fileNameLabel is the optional custom field naming the target local file.
const fileNameLabel = "file_name"

// stampPrefix namespaces the timestamp fields written after mutations.
const stampPrefix = "Generated by 1password-secrets"

// timestampFormat is the human-readable stamp format.
const timestampFormat = "2006/01/02 15:04:05"

// Item represents a 1Password item as returned by the CLI.
type Item struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Category string  `json:"category"`
	Fields   []Field `json:"fields"`
}

// Field represents a single field of a 1Password item.
type Field struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// NotFoundError indicates that no Secure Note title contains the
// requested substring.
type NotFoundError struct {
	Substring string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("there is no secure note in 1password with a name containing `%s`", e.Substring)
}

// EmptyNotesError indicates that an item's notesPlain field is missing
// or empty.
type EmptyNotesError struct {
	ItemID string
}

func (e EmptyNotesError) Error() string {
	return fmt.Sprintf("empty secrets in item %s, aborting", e.ItemID)
}

// Client talks to the 1Password CLI.
type Client struct {
	executor pkgexec.CommandExecutor
	logger   *logging.Logger
}

// New creates a vault client using the real CLI executor.
func New(logger *logging.Logger) *Client {
	return NewWithExecutor(logger, pkgexec.DefaultExecutor())
}

// NewWithExecutor creates a vault client with a custom executor.
// Primarily used for testing.
func NewWithExecutor(logger *logging.Logger, executor pkgexec.CommandExecutor) *Client {
	return &Client{executor: executor, logger: logger}
}

// Validate checks that the op CLI is installed and signed in.
func (c *Client) Validate(ctx context.Context) error {
	if _, err := exec.LookPath("op"); err != nil {
		return errors.UserError{
			Message:    "1Password CLI not found in PATH",
			Suggestion: "Install it from https://developer.1password.com/docs/cli/get-started/",
			Err:        err,
		}
	}

	if _, stderr, err := c.executor.Execute(ctx, "op", "account", "get"); err != nil {
		return errors.UserError{
			Message:    "1Password CLI authentication required",
			Suggestion: "Run: op signin",
			Details:    strings.TrimSpace(string(stderr)),
			Err:        err,
		}
	}
	return nil
}

// FindItemIDByTitle lists all Secure Note items and returns the id of
// the first whose title contains substring. When several titles match,
// the first one returned by the CLI wins.
func (c *Client) FindItemIDByTitle(ctx context.Context, substring string) (string, error) {
	args := []string{"item", "list", "--categories", secureNoteCategory, "--format", "json"}
	stdout, stderr, err := c.executor.Execute(ctx, "op", args...)
	if err != nil {
		return "", errors.WrapCommand("op", args, stderr, err)
	}

	var items []Item
	if err := json.Unmarshal(stdout, &items); err != nil {
		return "", fmt.Errorf("failed to parse op item list response: %w", err)
	}

	for _, item := range items {
		if strings.Contains(item.Title, substring) {
			c.logger.Debug("matched item %s (%s) for `%s`", item.ID, item.Title, substring)
			return item.ID, nil
		}
	}

	return "", NotFoundError{Substring: substring}
}

// GetItem fetches the full detail of an item, including field values.
func (c *Client) GetItem(ctx context.Context, itemID string) (*Item, error) {
	args := []string{"item", "get", itemID, "--format", "json"}
	stdout, stderr, err := c.executor.Execute(ctx, "op", args...)
	if err != nil {
		return nil, errors.WrapCommand("op", args, stderr, err)
	}

	var item Item
	if err := json.Unmarshal(stdout, &item); err != nil {
		return nil, fmt.Errorf("failed to parse op item get response: %w", err)
	}
	return &item, nil
}

// Notes returns the notesPlain payload of an item.
func (c *Client) Notes(ctx context.Context, itemID string) (string, error) {
	item, err := c.GetItem(ctx, itemID)
	if err != nil {
		return "", err
	}

	for _, field := range item.Fields {
		if field.ID == notesFieldID {
			if field.Value == "" {
				return "", EmptyNotesError{ItemID: itemID}
			}
			return field.Value, nil
		}
	}
	return "", EmptyNotesError{ItemID: itemID}
}

// FileName returns the value of the custom field labeled file_name,
// or the empty string when the item has no such field.
func (c *Client) FileName(ctx context.Context, itemID string) (string, error) {
	item, err := c.GetItem(ctx, itemID)
	if err != nil {
		return "", err
	}

	for _, field := range item.Fields {
		if field.Label == fileNameLabel {
			return field.Value, nil
		}
	}
	return "", nil
}

// SetNotes overwrites the notesPlain payload of an item.
func (c *Client) SetNotes(ctx context.Context, itemID, content string) error {
	args := []string{"item", "edit", itemID, notesFieldID + "=" + content}
	if _, stderr, err := c.executor.Execute(ctx, "op", args...); err != nil {
		return errors.WrapCommand("op", args, stderr, err)
	}
	c.logger.Debug("updated notes of item %s (%d bytes)", itemID, len(content))
	return nil
}

// StampTimestamp records a human-readable timestamp under a custom
// field such as "last imported at" after every mutating action.
func (c *Client) StampTimestamp(ctx context.Context, itemID, label string, t time.Time) error {
	assignment := fmt.Sprintf("%s.%s[text]=%s", stampPrefix, label, t.Format(timestampFormat))
	args := []string{"item", "edit", itemID, assignment, "--format", "json"}
	if _, stderr, err := c.executor.Execute(ctx, "op", args...); err != nil {
		return errors.WrapCommand("op", args, stderr, err)
	}
	return nil
}
