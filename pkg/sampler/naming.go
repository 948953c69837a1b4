package sampler

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
)

// Naming selects where frames are written and how they are named.
type Naming string

const (
	// NamingCoded writes <root>/<video name>/<code>-<i>.jpg, where code is
	// the last three digits of the video name.
	NamingCoded Naming = "coded"
	// NamingTimestamped writes <root>/frame_aleatorio_<i>_tempo_<ts>s.jpg,
	// the layout of the first release of the tool.
	NamingTimestamped Naming = "timestamped"
)

// fallbackCode is used when a video name has fewer than three digits.
const fallbackCode = "000"

// ParseNaming validates a naming scheme name. Empty selects NamingCoded.
func ParseNaming(s string) (Naming, error) {
	switch Naming(strings.ToLower(strings.TrimSpace(s))) {
	case "", NamingCoded:
		return NamingCoded, nil
	case NamingTimestamped:
		return NamingTimestamped, nil
	default:
		return "", fmt.Errorf("unknown naming scheme %q (want %q or %q)", s, NamingCoded, NamingTimestamped)
	}
}

// VideoName returns the base name of video without its extension.
func VideoName(video string) string {
	base := filepath.Base(video)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" {
		return base
	}
	return name
}

// OutputDir returns the directory frames of video are written to. It only
// depends on the video's base name, so repeated runs reuse the directory.
func OutputDir(root, video string, naming Naming) string {
	if naming == NamingTimestamped {
		return root
	}
	return filepath.Join(root, VideoName(video))
}

// PrefixCode returns the last three digits of the video name. ok is false
// when fewer than three digits exist and the fallback code is returned.
func PrefixCode(video string) (code string, ok bool) {
	var digits []rune
	for _, r := range VideoName(video) {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	if len(digits) < 3 {
		return fallbackCode, false
	}
	return string(digits[len(digits)-3:]), true
}

// FileName returns the file name of frame i.
func FileName(naming Naming, code string, i int, ts float64) string {
	if naming == NamingTimestamped {
		return fmt.Sprintf("frame_aleatorio_%d_tempo_%.2fs.jpg", i, ts)
	}
	return fmt.Sprintf("%s-%d.jpg", code, i)
}

// Timestamp maps a uniform draw r in [0, 1) onto [0, duration).
// A zero duration always yields 0.
func Timestamp(duration, r float64) float64 {
	if duration <= 0 {
		return 0
	}
	ts := duration * r
	if ts >= duration {
		ts = math.Nextafter(duration, 0)
	}
	if ts < 0 {
		ts = 0
	}
	return ts
}

// TranscoderArgs returns the ffmpeg arguments extracting a single frame at
// ts from video into dest: input seeking, one frame, fixed JPEG quality,
// overwrite without prompting.
func TranscoderArgs(video, dest string, ts float64, quality int) []string {
	return []string{
		"-ss", strconv.FormatFloat(ts, 'f', -1, 64),
		"-i", video,
		"-vframes", "1",
		"-q:v", strconv.Itoa(quality),
		"-y",
		dest,
	}
}
