package waypoints

import (
	"errors"
	"strings"

	"github.com/sells-group/waypoint-cli/internal/model"
)

// backupRegions returns the content of every complete
// "{c:geo-start}...{c:geo-end}" pair, in order. An open tag without a
// matching close tag is ignored.
func backupRegions(text string) []string {
	var regions []string
	from := 0
	for {
		open := strings.Index(text[from:], BackupTagOpen)
		if open < 0 {
			return regions
		}
		contentStart := from + open + len(BackupTagOpen)
		closeIdx := strings.Index(text[contentStart:], BackupTagClose)
		if closeIdx < 0 {
			return regions
		}
		regions = append(regions, text[contentStart:contentStart+closeIdx])
		from = contentStart + closeIdx + len(BackupTagClose)
	}
}

// removeBackupRegions cuts every complete region including its tags.
// Cutting can join an open and a close tag that were apart, so it repeats
// until nothing changes.
func removeBackupRegions(text string) string {
	for {
		next := removeBackupRegionsOnce(text)
		if next == text {
			return text
		}
		text = next
	}
}

func removeBackupRegionsOnce(text string) string {
	var sb strings.Builder
	from := 0
	for {
		open := strings.Index(text[from:], BackupTagOpen)
		if open < 0 {
			break
		}
		contentStart := from + open + len(BackupTagOpen)
		closeIdx := strings.Index(text[contentStart:], BackupTagClose)
		if closeIdx < 0 {
			break
		}
		sb.WriteString(text[from : from+open])
		from = contentStart + closeIdx + len(BackupTagClose)
	}
	sb.WriteString(text[from:])
	return sb.String()
}

// StripBackupRegion removes all backup regions and trims the result.
// Applying it twice gives the same text as applying it once.
func StripBackupRegion(text string) string {
	return strings.TrimSpace(removeBackupRegions(text))
}

// Embed replaces the backup regions of text with a fresh rendering of wps.
// The result is the stripped text, a blank line and the tagged rendering.
// With maxSize >= 0 the whole result stays within maxSize characters or
// ErrNoSolution is returned.
func Embed(text string, wps []model.Waypoint, maxSize int) (string, error) {
	clean := StripBackupRegion(text) + embedSeparator
	cleanSize := runeLen(clean)

	remaining := -1
	if maxSize >= 0 {
		if cleanSize >= maxSize {
			return "", &SizeBudgetError{MaxSize: maxSize, Smallest: cleanSize}
		}
		remaining = maxSize - cleanSize
	}

	rendered, err := RenderAll(wps, remaining, true)
	if err != nil {
		var budgetErr *SizeBudgetError
		if errors.As(err, &budgetErr) {
			return "", &SizeBudgetError{MaxSize: maxSize, Smallest: budgetErr.Smallest + cleanSize}
		}
		return "", err
	}
	return clean + rendered, nil
}
