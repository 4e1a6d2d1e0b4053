// Package messenger loads conversations from a Meta Messenger data
// export. Each conversation JSON file is rendered into one text
// document with messages in chronological order.
package messenger

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/keepsake-labs/recall-cli/internal/core/domain"
	"github.com/keepsake-labs/recall-cli/internal/core/ports/driven"
	"github.com/keepsake-labs/recall-cli/internal/logger"
)

// Ensure Loader implements the interface.
var _ driven.DocumentSource = (*Loader)(nil)

// DefaultAllowedDirs are the thread directories Messenger exports use.
var DefaultAllowedDirs = []string{"inbox", "archived_threads", "e2ee_cutover", "filtered_threads"}

// timestampLayout renders message timestamps inside the document text.
const timestampLayout = "2006-01-02 15:04:05"

// conversationFile mirrors the export's per-conversation JSON schema.
type conversationFile struct {
	Title        string `json:"title"`
	ThreadPath   string `json:"thread_path"`
	Participants []struct {
		Name string `json:"name"`
	} `json:"participants"`
	Messages []struct {
		SenderName  string `json:"sender_name"`
		TimestampMs int64  `json:"timestamp_ms"`
		Content     string `json:"content"`
		Photos      []struct {
			URI string `json:"uri"`
		} `json:"photos"`
	} `json:"messages"`
}

// Loader reads conversation JSON files from a Messenger export directory.
type Loader struct {
	dataDir     string
	allowedDirs []string
}

// Option configures the loader.
type Option func(*Loader)

// WithAllowedDirs overrides the thread subdirectories to search.
func WithAllowedDirs(dirs []string) Option {
	return func(l *Loader) {
		if len(dirs) > 0 {
			l.allowedDirs = dirs
		}
	}
}

// New creates a loader rooted at the export's messages directory.
func New(dataDir string, opts ...Option) *Loader {
	l := &Loader{
		dataDir:     dataDir,
		allowedDirs: DefaultAllowedDirs,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load parses every conversation JSON file under the allowed thread
// directories. A file that fails to parse is logged and skipped so one
// corrupt file never aborts the whole ingestion.
func (l *Loader) Load(ctx context.Context) ([]domain.Conversation, error) {
	var conversations []domain.Conversation

	for _, dir := range l.allowedDirs {
		dirPath := filepath.Join(l.dataDir, dir)
		if _, err := os.Stat(dirPath); err != nil {
			logger.Warn("Thread directory %s does not exist", dirPath)
			continue
		}

		err := filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".json") {
				return nil
			}

			conv, perr := l.parseFile(path)
			if perr != nil {
				logger.Warn("Skipping %s: %v", path, perr)
				return nil
			}
			if conv.Content == "" {
				logger.Warn("No valid messages found in %s, skipping", path)
				return nil
			}
			conversations = append(conversations, conv)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", dirPath, err)
		}
	}

	return conversations, nil
}

// parseFile renders one conversation JSON file into a document.
func (l *Loader) parseFile(path string) (domain.Conversation, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.Conversation{}, fmt.Errorf("read conversation: %w", err)
	}

	var file conversationFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return domain.Conversation{}, fmt.Errorf("parse conversation: %w", err)
	}

	var b strings.Builder
	discarded := 0

	// The export lists messages newest first; reverse for chronology.
	for i := len(file.Messages) - 1; i >= 0; i-- {
		msg := file.Messages[i]
		sender := DecodeExportText(msg.SenderName)
		if sender == "" {
			sender = "Unknown Sender"
		}
		timestamp := formatTimestamp(msg.TimestampMs)

		switch {
		case msg.Content != "":
			fmt.Fprintf(&b, "%s (%s): %s\n", sender, timestamp, DecodeExportText(msg.Content))
		case len(msg.Photos) > 0:
			for _, photo := range msg.Photos {
				fmt.Fprintf(&b, "%s (%s): ![](%s)\n", sender, timestamp, photo.URI)
			}
		default:
			discarded++
		}
	}
	if discarded > 0 {
		logger.Debug("Discarded %d unsupported messages in %s", discarded, path)
	}

	names := make([]string, 0, len(file.Participants))
	for _, p := range file.Participants {
		name := DecodeExportText(p.Name)
		if name == "" {
			name = "Unknown"
		}
		names = append(names, name)
	}

	return domain.Conversation{
		ChatID:       chatID(file.ThreadPath),
		Title:        DecodeExportText(file.Title),
		Participants: strings.Join(names, ", "),
		Content:      b.String(),
	}, nil
}

// chatID derives the stable conversation identifier from the thread
// path, e.g. "inbox/janedoe_1234567890" → "1234567890". A missing
// thread path gets a random identifier so source IDs stay unique.
func chatID(threadPath string) string {
	if threadPath == "" {
		return uuid.NewString()
	}
	name := threadPath
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	// Group threads without a text name have no underscore prefix.
	if idx := strings.Index(name, "_"); idx >= 0 {
		return name[idx+1:]
	}
	return name
}

// formatTimestamp converts a millisecond timestamp to a readable string.
func formatTimestamp(ms int64) string {
	if ms <= 0 {
		return "Unknown Timestamp"
	}
	return time.UnixMilli(ms).Format(timestampLayout)
}

// DecodeExportText fixes Meta's double-encoded text: exports store UTF-8
// bytes that were decoded as latin-1, mangling any non-ASCII character.
// Re-encoding each rune as a single byte and re-decoding as UTF-8
// recovers the original text; strings that don't fit that shape are
// returned unchanged.
func DecodeExportText(s string) string {
	bytes := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0xFF {
			// Not latin-1 mangled; already proper text.
			return s
		}
		bytes = append(bytes, byte(r))
	}
	if !utf8.Valid(bytes) {
		return s
	}
	return string(bytes)
}
