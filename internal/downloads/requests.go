package downloads

import (
	"fmt"
	"net/url"
	"regexp"
	"slices"
	"strings"

	"github.com/Jayasakthi-07/modern-youtube-downloader/internal/services"
)

var videoQualities = []string{"144", "240", "360", "480", "720", "1080", "1440", "2160"}

var videoFormats = []string{"mp4", "webm", "mkv"}

var audioFormats = []string{"mp3", "m4a", "aac", "opus", "flac", "wav"}

// timePattern accepts plain seconds ("90"), fractional seconds ("90.5"),
// and colon-delimited clock values ("1:30", "01:02:03").
var timePattern = regexp.MustCompile(`^\d+(?:\.\d+)?$|^\d{1,2}(?::\d{2}){1,2}$`)

// VideoRequest is a validated single-video download request.
type VideoRequest struct {
	URL       string `json:"url"`
	Quality   string `json:"quality"`
	Format    string `json:"format"`
	StartTime string `json:"startTime,omitempty"`
	EndTime   string `json:"endTime,omitempty"`
}

// AudioRequest is a validated audio-only download request.
type AudioRequest struct {
	URL     string `json:"url"`
	Format  string `json:"format"`
	Quality string `json:"quality"`
}

// PlaylistRequest is a validated playlist download request.
type PlaylistRequest struct {
	URL       string `json:"url"`
	Quality   string `json:"quality"`
	Format    string `json:"format"`
	AudioOnly bool   `json:"audioOnly"`
}

func validateURL(raw string) error {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return services.Wrap(services.ErrValidation, "downloads", "request", "url is required", nil)
	}
	parsed, err := url.Parse(trimmed)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return services.Wrap(services.ErrValidation, "downloads", "request", fmt.Sprintf("url %q is not a valid http(s) address", raw), nil)
	}
	return nil
}

func validateEnum(field, value string, allowed []string) error {
	if !slices.Contains(allowed, value) {
		return services.Wrap(services.ErrValidation, "downloads", "request",
			fmt.Sprintf("%s %q is not supported (allowed: %s)", field, value, strings.Join(allowed, ", ")), nil)
	}
	return nil
}

func validateTime(field, value string) error {
	if value == "" {
		return nil
	}
	if !timePattern.MatchString(value) {
		return services.Wrap(services.ErrValidation, "downloads", "request",
			fmt.Sprintf("%s %q is not a valid time (use seconds or HH:MM:SS)", field, value), nil)
	}
	return nil
}

// Validate checks the request shape before any work starts.
func (r *VideoRequest) Validate() error {
	if err := validateURL(r.URL); err != nil {
		return err
	}
	r.Quality = strings.TrimSpace(r.Quality)
	if err := validateEnum("quality", r.Quality, videoQualities); err != nil {
		return err
	}
	r.Format = strings.ToLower(strings.TrimSpace(r.Format))
	if err := validateEnum("format", r.Format, videoFormats); err != nil {
		return err
	}
	r.StartTime = strings.TrimSpace(r.StartTime)
	r.EndTime = strings.TrimSpace(r.EndTime)
	if err := validateTime("startTime", r.StartTime); err != nil {
		return err
	}
	return validateTime("endTime", r.EndTime)
}

// Validate checks the request shape before any work starts.
func (r *AudioRequest) Validate() error {
	if err := validateURL(r.URL); err != nil {
		return err
	}
	r.Format = strings.ToLower(strings.TrimSpace(r.Format))
	if err := validateEnum("format", r.Format, audioFormats); err != nil {
		return err
	}
	r.Quality = strings.TrimSpace(r.Quality)
	if r.Quality == "" {
		r.Quality = "192K"
	}
	return nil
}

// Validate checks the request shape before any work starts.
func (r *PlaylistRequest) Validate() error {
	if err := validateURL(r.URL); err != nil {
		return err
	}
	r.Format = strings.ToLower(strings.TrimSpace(r.Format))
	r.Quality = strings.TrimSpace(r.Quality)
	if r.AudioOnly {
		return validateEnum("format", r.Format, audioFormats)
	}
	if err := validateEnum("quality", r.Quality, videoQualities); err != nil {
		return err
	}
	return validateEnum("format", r.Format, videoFormats)
}
