package toolchain

import (
	"github.com/ideamans/go-l10n"

	"github.com/user/framepick/pkg/pipeline"
	"github.com/user/framepick/pkg/ports"
)

// Announce emits the tool-check lines for a resolution: where the tools
// were found, or a warning with the accumulated details.
func Announce(sink ports.EventSink, res Resolution) {
	em := pipeline.NewEmitter(sink, "")
	em.Info(ports.EventToolCheck, l10n.T("Checking media toolchain..."))

	if res.Paths.Complete() {
		for _, line := range res.Log {
			em.Debug(ports.EventToolCheck, line)
		}
		switch {
		case res.Source == SourceMixed:
			em.Info(ports.EventToolCheck, l10n.F("ffmpeg loaded from: %s", res.Paths.Transcoder))
			em.Info(ports.EventToolCheck, l10n.F("ffprobe loaded from: %s", res.Paths.Probe))
		case res.Paths.ViaSearchPath():
			em.Info(ports.EventToolCheck, l10n.T("ffmpeg and ffprobe found on the system PATH."))
		default:
			em.Info(ports.EventToolCheck, l10n.F("ffmpeg and ffprobe loaded from: %s", res.Paths.BinDir()))
		}
		if res.Saved {
			em.Info(ports.EventToolCheck, l10n.T("The toolchain folder was saved for future runs."))
		}
		return
	}

	em.Warn(ports.EventToolCheck, l10n.T("Warning: ffmpeg/ffprobe not found or the saved folder is invalid."))
	for _, line := range res.Log {
		em.Warn(ports.EventToolCheck, l10n.F("Details: %s", line))
	}
}
