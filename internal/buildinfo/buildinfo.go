package buildinfo

// These are typically injected at build time via -ldflags:
//
//	-X myreplays/internal/buildinfo.Version=v0.1.0
//	-X myreplays/internal/buildinfo.Commit=abcdef
//	-X myreplays/internal/buildinfo.Date=2026-08-29
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit,omitempty"`
	Date    string `json:"date,omitempty"`
}

func Current() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}
