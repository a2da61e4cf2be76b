package ytdlp

import (
	"regexp"
	"strconv"
)

// ProgressUpdate captures one parsed yt-dlp progress line. Speed and ETA are
// raw substrings from the process output; no unit normalization happens here.
type ProgressUpdate struct {
	Percent float64
	Speed   string
	ETA     string
}

// yt-dlp with --newline emits lines like:
//
//	[download]  12.3% of 10.00MiB at 1.23MiB/s ETA 00:10
//
// Anything else on stdout (merge notices, destination headers, warnings) is
// not a progress line.
var progressPattern = regexp.MustCompile(`^\[download\]\s+(\d+(?:\.\d+)?)%.*\bat\s+(\S+/s).*\bETA\s+(\d{1,3}(?::\d{2})+)`)

// ParseProgress maps a line of process output to a progress update. The
// second return value is false for every non-progress line; those are
// ignored, not errors.
func ParseProgress(line string) (ProgressUpdate, bool) {
	matches := progressPattern.FindStringSubmatch(line)
	if matches == nil {
		return ProgressUpdate{}, false
	}
	percent, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return ProgressUpdate{}, false
	}
	return ProgressUpdate{
		Percent: percent,
		Speed:   matches[2],
		ETA:     matches[3],
	}, true
}
