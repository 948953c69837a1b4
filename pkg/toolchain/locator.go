// Package toolchain locates the ffmpeg and ffprobe executables.
package toolchain

import (
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/ideamans/go-l10n"

	"github.com/user/framepick/pkg/pipeline"
	"github.com/user/framepick/pkg/ports"
	"github.com/user/framepick/pkg/preferences"
)

// Executable names, without platform suffix.
const (
	TranscoderName = "ffmpeg"
	ProbeName      = "ffprobe"
)

// versionFlag is the trivial invocation used to verify a candidate.
const versionFlag = "-version"

// Paths is the resolved toolchain.
type Paths = pipeline.Toolchain

// Source tells where a complete resolution came from.
type Source string

const (
	SourceNone       Source = "none"
	SourceExplicit   Source = "explicit"
	SourcePreference Source = "preference"
	SourceSearchPath Source = "search_path"
	SourceMixed      Source = "mixed"
)

// Resolution is the outcome of one Resolve call.
type Resolution struct {
	Paths  Paths
	Source Source

	// Saved reports whether the explicit directory was persisted.
	Saved bool

	// Log holds one line per failed verification, across all tiers.
	Log []string
}

// ErrorLog joins the accumulated log lines.
func (r Resolution) ErrorLog() string {
	return strings.Join(r.Log, "\n")
}

func (r *Resolution) logf(msg string, args ...interface{}) {
	r.Log = append(r.Log, l10n.F(msg, args...))
}

// Locator resolves the toolchain in three tiers: an explicit directory,
// the persisted preference, then the system search path.
type Locator struct {
	runner    ports.CommandRunner
	fs        ports.FileSystem
	prefs     ports.PreferenceStore
	exeSuffix string
}

// NewLocator creates a Locator. On Windows the ".exe" suffix is applied to
// directory candidates.
func NewLocator(runner ports.CommandRunner, fs ports.FileSystem, prefs ports.PreferenceStore) *Locator {
	suffix := ""
	if runtime.GOOS == "windows" {
		suffix = ".exe"
	}
	return &Locator{
		runner:    runner,
		fs:        fs,
		prefs:     prefs,
		exeSuffix: suffix,
	}
}

// WithExeSuffix overrides the platform executable suffix.
func (l *Locator) WithExeSuffix(suffix string) *Locator {
	l.exeSuffix = suffix
	return l
}

// Resolve finds both executables. explicitDir, when non-empty, is checked
// first and saved as the preference if it holds both tools; in that case the
// persisted preference is not consulted even if explicitDir fails.
//
// Resolve never fails: unresolved tools are left empty and every failed
// check is described in Resolution.Log.
func (l *Locator) Resolve(ctx context.Context, explicitDir string) Resolution {
	var res Resolution
	sources := map[string]Source{}

	dir := explicitDir
	dirSource := SourceExplicit
	if dir == "" {
		dirSource = SourcePreference
		pref, err := preferences.LoadToolchain(l.prefs)
		if err != nil {
			res.logf("Could not load the saved toolchain folder: %s", err)
		}
		dir = pref.BinDir
	}

	if dir != "" {
		for _, name := range []string{TranscoderName, ProbeName} {
			if path, ok := l.checkInDir(ctx, &res, dir, name); ok {
				res.Paths = setPath(res.Paths, name, path)
				sources[name] = dirSource
			}
		}

		if res.Paths.Complete() {
			if explicitDir != "" {
				if err := preferences.SaveToolchain(l.prefs, preferences.Toolchain{BinDir: explicitDir}); err != nil {
					res.logf("Could not save the toolchain folder: %s", err)
				} else {
					res.Saved = true
				}
			}
			res.Source = dirSource
			return res
		}
	}

	for _, name := range []string{TranscoderName, ProbeName} {
		if getPath(res.Paths, name) != "" {
			continue
		}
		if _, err := l.runner.Run(ctx, name, versionFlag); err != nil {
			res.logf("'%s' not found or failing on the system PATH: %s", name, describe(err))
			continue
		}
		res.Paths = setPath(res.Paths, name, name)
		sources[name] = SourceSearchPath
	}

	res.Source = summarize(res.Paths, sources)
	return res
}

// checkInDir verifies <dir>/<name><suffix>.
func (l *Locator) checkInDir(ctx context.Context, res *Resolution, dir, name string) (string, bool) {
	exe := name + l.exeSuffix
	full := filepath.Join(dir, exe)

	exists, err := l.fs.Exists(full)
	if err != nil {
		res.logf("Error checking '%s' in '%s': %s", name, dir, err)
		return "", false
	}
	if !exists {
		res.logf("'%s' not found in '%s'.", exe, dir)
		return "", false
	}
	if _, err := l.runner.Run(ctx, full, versionFlag); err != nil {
		res.logf("Error checking '%s' in '%s': %s", name, dir, describe(err))
		return "", false
	}
	return full, true
}

func summarize(paths Paths, sources map[string]Source) Source {
	if !paths.Complete() {
		return SourceNone
	}
	if sources[TranscoderName] == sources[ProbeName] {
		return sources[TranscoderName]
	}
	return SourceMixed
}

func getPath(p Paths, name string) string {
	if name == TranscoderName {
		return p.Transcoder
	}
	return p.Probe
}

func setPath(p Paths, name, path string) Paths {
	if name == TranscoderName {
		p.Transcoder = path
	} else {
		p.Probe = path
	}
	return p
}

// describe renders an invocation error, adding the first line of the
// captured stderr for non-zero exits.
func describe(err error) string {
	var exitErr *ports.ExitError
	if errors.As(err, &exitErr) {
		if line := firstLine(exitErr.Stderr); line != "" {
			return exitErr.Error() + ": " + line
		}
	}
	return err.Error()
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
