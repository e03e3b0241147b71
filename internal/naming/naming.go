// Package naming holds the filename convention for edited CSV versions.
//
// An edited version is named <base>_edited_<YYYYMMDD>_<HHMMSS>.csv and its
// origin is <base>.csv under the project's original folder. Re-editing an
// edited version keeps <base> and only replaces the timestamp, so suffixes
// never nest.
package naming

import (
	"regexp"
	"strings"
	"time"
)

const (
	// CSVExt is the only extension the store treats as a CSV file.
	CSVExt = ".csv"
	// OriginalDir is the per-project folder holding machine-translated originals.
	OriginalDir = "original"
	// CommentsDir is the per-project folder holding comment sidecars.
	CommentsDir = "comments"

	editedMarker    = "_edited_"
	timestampLayout = "20060102_150405"
)

var editedStem = regexp.MustCompile(`^(.+)_edited_(\d{8})_(\d{6})$`)

// Timestamp formats t as YYYYMMDD_HHMMSS in t's own location.
func Timestamp(t time.Time) string {
	return t.Format(timestampLayout)
}

// Stem strips a trailing .csv extension from a filename.
func Stem(filename string) string {
	return strings.TrimSuffix(filename, CSVExt)
}

// IsCSV reports whether filename carries the .csv extension.
func IsCSV(filename string) bool {
	return strings.HasSuffix(filename, CSVExt) && len(filename) > len(CSVExt)
}

// ParseEdited splits an edited-version stem into its base and timestamp.
// ok is false when stem does not follow the edited-version pattern. A stem
// whose digits match the pattern but do not form a valid date still counts
// as edited; ts is then the zero time.
func ParseEdited(stem string) (base string, ts time.Time, ok bool) {
	m := editedStem.FindStringSubmatch(stem)
	if m == nil {
		return "", time.Time{}, false
	}
	ts, err := time.ParseInLocation(timestampLayout, m[2]+"_"+m[3], time.Local)
	if err != nil {
		ts = time.Time{}
	}
	return m[1], ts, true
}

// BaseStem returns the origin base of stem: the part before the edited
// suffix, or stem itself.
func BaseStem(stem string) string {
	if base, _, ok := ParseEdited(stem); ok {
		return base
	}
	return stem
}

// OriginName maps a CSV filename to the filename of its original:
// x_edited_20240101_000000.csv becomes x.csv, anything else is unchanged.
func OriginName(filename string) string {
	if !IsCSV(filename) {
		return filename
	}
	if base, _, ok := ParseEdited(Stem(filename)); ok {
		return base + CSVExt
	}
	return filename
}

// EditedName builds the filename of a new edited version of stem at t.
func EditedName(stem string, t time.Time) string {
	return BaseStem(stem) + editedMarker + Timestamp(t) + CSVExt
}
