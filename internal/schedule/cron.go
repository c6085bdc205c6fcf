package schedule

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// DefaultCronPath is where the compiled trigger table is installed.
const DefaultCronPath = "/etc/cron.d/autoff"

// ErrCronExists means a trigger table is already installed at the target
// path. Remove it before installing a new one.
var ErrCronExists = errors.New("cron file already exists")

// RenderCron renders compiled trigger windows as a cron.d table: one line
// per window, `<minute-list> <hour-or-range> * * * root <command>`.
func RenderCron(windows []TriggerWindow) string {
	var b strings.Builder
	for _, w := range windows {
		parts := make([]string, 0, len(w.Minutes))
		for _, m := range w.Minutes {
			parts = append(parts, strconv.Itoa(m))
		}

		var hour string
		switch {
		case w.Unconditional:
			hour = "00"
		case w.HourFrom == w.HourTo:
			hour = strconv.Itoa(w.HourFrom)
		default:
			hour = fmt.Sprintf("%d-%d", w.HourFrom, w.HourTo)
		}

		fmt.Fprintf(&b, "%s %s * * * root %s\n", strings.Join(parts, ","), hour, w.Command)
	}
	return b.String()
}

// Install writes the rendered table to path. The write is create-exclusive:
// an existing file yields ErrCronExists rather than being overwritten.
func Install(path, table string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("%w: %s", ErrCronExists, path)
		}
		return fmt.Errorf("create cron file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(table); err != nil {
		return fmt.Errorf("write cron file: %w", err)
	}
	return nil
}

// Remove deletes an installed trigger table. A missing file is not an error.
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove cron file: %w", err)
	}
	return nil
}
